/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

// IssueCode identifies one class of data-quality problem.
type IssueCode string

const (
	CodePlaceholder      IssueCode = "PLACEHOLDER"
	CodeNegativeFixed    IssueCode = "NEGATIVE_FIXED"
	CodeNegativeRate     IssueCode = "NEGATIVE_RATE"
	CodeMonotonicity     IssueCode = "MONOTONICITY"
	CodeOutlierRate      IssueCode = "OUTLIER_RATE"
	CodeDrift            IssueCode = "DRIFT"
	CodeNonCommunicating IssueCode = "NON_COMMUNICATING"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// ValidationIssue is one finding from a validation or drift pass. Issues
// are produced fresh on every pass and are never persisted; they drive
// health classification and incident creation only.
type ValidationIssue struct {
	ProviderKey string                 `json:"provider_key"`
	Code        IssueCode              `json:"code"`
	Message     string                 `json:"message"`
	Severity    Severity               `json:"severity"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

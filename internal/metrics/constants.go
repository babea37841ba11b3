package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "casebot_http_requests_total"
	MetricNameHTTPRequestDuration  = "casebot_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "casebot_http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "casebot_events_published_total"
	MetricNameEventHandlerErrors = "casebot_event_handler_errors_total"
)

// Business metric names
const (
	MetricNameCasesOpened       = "casebot_cases_opened_total"
	MetricNameItemsSold         = "casebot_items_sold_total"
	MetricNameLevelUps          = "casebot_level_ups_total"
	MetricNameUsersRegistered   = "casebot_users_registered_total"
	MetricNameBalanceAdjusted   = "casebot_balance_adjustments_total"
	MetricNameEconomyResets     = "casebot_economy_resets_total"
	MetricNameMoneySpent        = "casebot_money_spent_total"
	MetricNameMoneyEarned       = "casebot_money_earned_total"
	MetricNameIdempotentReplays = "casebot_idempotent_replays_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events observed on the bus"
	HelpTextEventHandlerErrors = "Total number of events whose payload could not be decoded"
)

// Business metric help text
const (
	HelpTextCasesOpened       = "Total number of cases opened by case and drawn rarity"
	HelpTextItemsSold         = "Total number of items sold back by rarity"
	HelpTextLevelUps          = "Total number of level boundaries crossed"
	HelpTextUsersRegistered   = "Total number of accounts created"
	HelpTextBalanceAdjusted   = "Total number of admin balance adjustments by direction"
	HelpTextEconomyResets     = "Total number of bulk economy resets"
	HelpTextMoneySpent        = "Total currency spent opening cases"
	HelpTextMoneyEarned       = "Total currency credited from sales"
	HelpTextIdempotentReplays = "Total number of responses served from the idempotency store"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelCase      = "case"
	LabelRarity    = "rarity"
	LabelDirection = "direction"
)

// Adjustment directions
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// HTTPLatencyBuckets are histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Log Messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Event metrics recorded"
)

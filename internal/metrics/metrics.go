package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Metrics names.
	MetricNameBuildInfo       = "ledgerclient_build_info"
	MetricNameRequests        = "ledgerclient_requests_total"
	MetricNameErrors          = "ledgerclient_errors_total"
	MetricNameRequestDuration = "ledgerclient_request_duration_seconds"

	// Labels.
	LabelVersion   = "version"
	LabelCommit    = "commit"
	LabelDate      = "date"
	LabelOperation = "operation"
	LabelErrorType = "error_type"

	// Operations.
	OperationGetAccountInfo         = "get_account_info"
	OperationGetBalance             = "get_balance"
	OperationTransferFunds          = "transfer_funds"
	OperationSendProgramInstruction = "send_program_instruction"

	// Error types.
	ErrorTypeClientClosed   = "client_closed"
	ErrorTypeConfig         = "config"
	ErrorTypeInvalidAddress = "invalid_address"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeNode           = "node"
	ErrorTypeSigning        = "signing"
	ErrorTypeSerialization  = "serialization"
	ErrorTypeUnknown        = "unknown"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the ledger client",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRequests,
			Help: "Number of ledger client operations issued",
		},
		[]string{LabelOperation},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRequestDuration,
			Help:    "Duration of ledger client operations",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{LabelOperation},
	)
)

const (
	MetricNameAccountBalanceLamports = "ledgerclient_account_balance_lamports"
	MetricNameAccountBalanceSOL      = "ledgerclient_account_balance_sol"

	LabelAccount = "account"
)

var (
	AccountBalanceLamports = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameAccountBalanceLamports,
			Help: "Watched account balance in lamports",
		},
		[]string{LabelAccount},
	)

	AccountBalanceSOL = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameAccountBalanceSOL,
			Help: "Watched account balance in SOL",
		},
		[]string{LabelAccount},
	)
)

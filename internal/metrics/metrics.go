package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeBlocked  = "blocked"
)

// Metrics provides observability for permit workflow sessions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SessionsOpened prometheus.Counter
	SessionsClosed *prometheus.CounterVec

	// Forward navigation refused by step
	StepRejections *prometheus.CounterVec

	// Attachment selections refused by reason
	AttachmentRejections *prometheus.CounterVec

	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return &Metrics{
		SessionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "charityportal_permit_sessions_opened_total",
			Help: "Total permit workflow sessions opened",
		}),
		SessionsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "charityportal_permit_sessions_closed_total",
			Help: "Total permit workflow sessions closed by reason",
		}, []string{"reason"}), // reason: "closed", "idle", "shutdown"

		StepRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "charityportal_permit_step_rejections_total",
			Help: "Forward navigations refused because the current step was invalid",
		}, []string{"step"}),

		AttachmentRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "charityportal_permit_attachment_rejections_total",
			Help: "Attachment selections refused by reason",
		}, []string{"reason"}),

		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "charityportal_permit_submissions_total",
			Help: "Permit submissions by outcome",
		}, []string{"outcome"}),
		SubmissionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "charityportal_permit_submission_duration_seconds",
			Help:    "Duration of the submission collaborator call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) IncrementSessionOpened() {
	if m != nil {
		m.SessionsOpened.Inc()
	}
}

func (m *Metrics) IncrementSessionClosed(reason string) {
	if m != nil {
		m.SessionsClosed.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncrementStepRejection(step string) {
	if m != nil {
		m.StepRejections.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncrementAttachmentRejection(reason string) {
	if m != nil {
		m.AttachmentRejections.WithLabelValues(reason).Inc()
	}
}

// ObserveSubmission records the outcome of a submission attempt. Call with
// time.Now() at the start of the collaborator call.
func (m *Metrics) ObserveSubmission(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeBlocked {
		m.SubmissionDuration.Observe(time.Since(start).Seconds())
	}
}

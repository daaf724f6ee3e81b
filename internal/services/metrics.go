package services

import "github.com/prometheus/client_golang/prometheus"

// conversationEvents counts conversation engine outcomes by event name
// (thread_created, thread_reused, message_sent, message_replayed, thread_read).
var conversationEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "friendapp_conversation_events_total",
		Help: "Conversation engine events by type.",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(conversationEvents)
}

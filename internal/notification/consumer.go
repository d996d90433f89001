package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/chnm/relcensus-backend/utils"
)

type workflowEvent struct {
	Event        string `json:"event"`
	ScheduleID   uint   `json:"schedule_id"`
	ResourceID   string `json:"resource_id"`
	StatusBefore string `json:"status_before"`
	StatusAfter  string `json:"status_after"`
}

// StartKafkaConsumer tails the workflow topic. In-app and email delivery
// happen synchronously in the workflow service; this consumer is the hook for
// systems that follow the project from outside, and it keeps a readable trail
// of every event in the server log. It returns immediately when no broker is
// configured.
func StartKafkaConsumer(ctx context.Context) {
	reader := utils.NewWorkflowReader("relcensus-notifications")
	if reader == nil {
		log.Println("ℹ️ Kafka consumer not started, no broker configured")
		return
	}

	go func() {
		defer reader.Close()

		log.Println("✅ Kafka workflow consumer started")
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Kafka read error: %v", err)
				continue
			}

			var event workflowEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("⚠️ Malformed workflow event: %v", err)
				continue
			}

			log.Printf("🔄 Workflow event %s: schedule %s %s -> %s",
				event.Event, event.ResourceID, event.StatusBefore, event.StatusAfter)
		}
	}()
}

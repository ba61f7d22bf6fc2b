package notify

import (
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Send asks the notification actor to deliver a message to a recipient.
type Send struct {
	Recipient string
	Message   string
}

// notificationActor delivers order notifications off the request path.
type notificationActor struct {
	logger *zap.Logger
}

func (a *notificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *Send:
		// Delivery transport (SMS/push) is plugged in here; for now the
		// structured log line is the delivery.
		a.logger.Info("sending notification",
			zap.String("recipient", msg.Recipient),
			zap.String("message", msg.Message))

	case *actor.Started:
		a.logger.Info("notification actor started")

	case *actor.Stopped:
		a.logger.Info("notification actor stopped")
	}
}

// Service runs the notification actor and exposes a fire-and-forget
// Notify for checkout to call. Messages are handled one at a time in the
// actor mailbox, so delivery never blocks an order submission.
type Service struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewService(logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &notificationActor{logger: logger.Named("notification-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, err
	}

	return &Service{system: system, pid: pid}, nil
}

// Notify enqueues a notification without waiting for delivery.
func (s *Service) Notify(recipient, message string) {
	s.system.Root.Send(s.pid, &Send{Recipient: recipient, Message: message})
}

// Stop stops the notification actor, waiting for its mailbox to drain.
func (s *Service) Stop() {
	s.system.Root.StopFuture(s.pid).Wait()
}

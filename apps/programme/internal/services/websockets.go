package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/communication/wstools"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"programme.xdoubleu.com/apps/programme/internal/dtos"
)

// WebSocketService broadcasts the refresh state of the background jobs,
// one topic per job.
type WebSocketService struct {
	allowedOrigins []string
	handler        *wstools.WebSocketHandler[dtos.SubscribeMessageDto]
	jobQueue       *threading.JobQueue
	programme      *ProgrammeService
	topics         map[string]*wstools.Topic
}

func NewWebSocketService(
	logger *slog.Logger,
	allowedOrigins []string,
	jobQueue *threading.JobQueue,
	programme *ProgrammeService,
) *WebSocketService {
	service := WebSocketService{
		allowedOrigins: allowedOrigins,
		handler:        nil,
		jobQueue:       jobQueue,
		programme:      programme,
		topics:         make(map[string]*wstools.Topic),
	}

	handler := wstools.CreateWebSocketHandler[dtos.SubscribeMessageDto](
		logger,
		1,
		100, //nolint:mnd //no magic number
	)

	service.handler = &handler

	return &service
}

func (service *WebSocketService) Handler() http.HandlerFunc {
	return service.handler.Handler()
}

func (service *WebSocketService) UpdateState(
	id string,
	isRunning bool,
	lastRunTime *time.Time,
) {
	topic, ok := service.topics[id]
	if !ok {
		return
	}

	topic.EnqueueEvent(service.state(isRunning, lastRunTime))
}

func (service *WebSocketService) RegisterTopics(topics []string) {
	for _, topic := range topics {
		registeredTopic, err := service.handler.AddTopic(
			topic,
			service.allowedOrigins,
			func(_ context.Context, tp *wstools.Topic) (any, error) {
				return service.state(service.jobQueue.FetchState(tp.Name)), nil
			},
		)
		if err != nil {
			panic(err)
		}
		service.topics[topic] = registeredTopic
	}
}

func (service *WebSocketService) state(
	isRefreshing bool,
	lastRefresh *time.Time,
) dtos.StateMessageDto {
	state := dtos.StateMessageDto{
		IsRefreshing: isRefreshing,
		LastRefresh:  lastRefresh,
		Days:         []string{},
		Sessions:     0,
		Error:        "",
	}

	if err := service.programme.LastError(); err != nil {
		state.Error = err.Error()
	}

	programme, err := service.programme.Current()
	if err == nil {
		state.Days = programme.DayNames()
		state.Sessions = programme.SessionCount()
	}

	return state
}

package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/service"
)

type StreamController interface {
	Stream(c echo.Context) error
}

type streamController struct {
	broker service.VoteBroker
}

func newStreamController(broker service.VoteBroker) StreamController {
	return &streamController{
		broker: broker,
	}
}

// Stream serves the live vote feed as server-sent events. Each accepted vote
// arrives as a VOTE_UPDATE event; delivery is best-effort and a slow client
// only loses its own updates.
func (s streamController) Stream(c echo.Context) error {
	connectionID := fmt.Sprintf("conn_%d", time.Now().UTC().UnixNano())

	subscriber := s.broker.Subscribe(connectionID)
	defer s.broker.Unsubscribe(connectionID)

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case update, ok := <-subscriber.Updates:
			if !ok {
				return nil
			}

			data, err := json.Marshal(update)
			if err != nil {
				logrus.Errorf("Error marshaling vote update for %s: %v", connectionID, err)
				continue
			}

			if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", dto.VoteUpdateType, data); err != nil {
				logrus.Infof("Observer %s dropped: %v", connectionID, err)
				return nil
			}
			resp.Flush()

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

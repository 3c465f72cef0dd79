package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

type messagesResponse struct {
	ThreadID model.ID         `json:"thread_id"`
	Items    []*model.Message `json:"items"`
	Count    int              `json:"count"`
	HasMore  bool             `json:"has_more"`
}

func threadID(r *http.Request) model.ID {
	return model.ID(chi.URLParam(r, "id"))
}

func renderMessages(w http.ResponseWriter, r *http.Request, uc *usecase.MessagingUseCase, id model.ID) {
	msgs := uc.Messages(id)
	if msgs == nil {
		msgs = []*model.Message{}
	}
	writeJSON(w, r, http.StatusOK, messagesResponse{
		ThreadID: id,
		Items:    msgs,
		Count:    len(msgs),
		HasMore:  uc.HasMore(id),
	})
}

// listMessagesHandler opens the thread, so the open-thread poller follows it,
// and returns its newest messages
func listMessagesHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := threadID(r)
		uc.OpenThread(id)

		if _, err := uc.FetchMessages(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		renderMessages(w, r, uc, id)
	}
}

func loadMoreHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := threadID(r)
		if _, err := uc.LoadMoreMessages(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		renderMessages(w, r, uc, id)
	}
}

func markReadHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := threadID(r)
		marked, err := uc.MarkVisibleRead(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]int{
			"marked":       marked,
			"total_unread": uc.TotalUnread(),
		})
	}
}

func closeThreadHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uc.CloseThread(threadID(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// eventsHandler is the push seam: a transport posts messaging events here and
// they are reduced exactly like polled data
func eventsHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var ev usecase.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "malformed event body", goerr.V("error", err.Error())))
			return
		}

		if err := uc.Apply(ctx, ev); err != nil {
			writeError(w, r, err)
			return
		}

		logging.From(ctx).Debug("messaging event applied", "type", ev.Type, "thread_id", ev.ThreadID)
		writeJSON(w, r, http.StatusAccepted, map[string]int{"total_unread": uc.TotalUnread()})
	}
}

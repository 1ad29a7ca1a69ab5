package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"stridercup/src-server/model"
	"stridercup/src-server/utils"
	"stridercup/src-server/webhook"
	"time"
)

// Register wires the registration submission flow: required fields in, the
// submission forwarded to the event's spreadsheet webhook in the background,
// and the payment-link URL handed back for the browser to navigate to. The
// webhook is an at-most-once unacknowledged side channel; its failure never
// blocks the payment redirect.
func Register(muxer *http.ServeMux, as *utils.AppState, forwarder *webhook.Forwarder) {
	type RegisterReqBody struct {
		RiderName  string `json:"riderName"`
		ParentName string `json:"parentName"`
		Contact    string `json:"contact"`
		Email      string `json:"email"`
		CategoryID string `json:"categoryId"`
	}

	type RegisterRespBody struct {
		PaymentLink string `json:"paymentLink"`
	}

	muxer.HandleFunc("POST /api/events/{id}/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody RegisterReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		switch {
		case reqBody.RiderName == "",
			reqBody.ParentName == "",
			reqBody.Contact == "",
			reqBody.Email == "",
			reqBody.CategoryID == "":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("All fields are required"))
			return
		}

		eventModel, err := model.GetEventWithChildren(r.Context(), as.BunDB, r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get event"))
			slog.Error("can't get event", "error", err)
			return
		}
		if eventModel == nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}

		// both the admin's status flag and the deadline can close this
		if !eventModel.RegistrationOpenAt(time.Now()) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Registration closed"))
			return
		}

		var category *model.EventCategory
		for _, c := range eventModel.Categories {
			if c.ID == reqBody.CategoryID {
				category = c
				break
			}
		}
		if category == nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Unknown category"))
			return
		}

		if eventModel.WebhookURL != "" {
			forwarder.DeliverAsync(eventModel.WebhookURL, webhook.Submission{
				EventName:     eventModel.Name,
				ParentName:    reqBody.ParentName,
				RiderName:     reqBody.RiderName,
				Contact:       reqBody.Contact,
				Email:         reqBody.Email,
				CategoryName:  category.Name,
				CategoryPrice: category.Price.String(),
			})
		}

		respBodyJson, err := json.Marshal(RegisterRespBody{
			PaymentLink: eventModel.PaymentLink,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}

package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"stridercup/src-server/countdown"
	"stridercup/src-server/model"
	"stridercup/src-server/utils"
	"time"

	"github.com/uptrace/bun"
)

// Public read-only views of the event store: the landing page's upcoming
// races strip and the event detail page.
func Events(muxer *http.ServeMux, as *utils.AppState) {
	type OneEventListItem struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Location  string `json:"location"`
		ImageURL  string `json:"imageUrl"`
		PriceFrom string `json:"priceFrom,omitempty"`
	}

	// the landing page shows at most 3 upcoming open races
	muxer.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		startTimer := time.Now()
		eventModels := make([]model.Event, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&eventModels).
			Where("registration_status = ?", model.REGISTRATION_STATUS_OPEN).
			Relation("Categories", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("display_order ASC")
			}).
			Order("date ASC").
			Limit(3).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get events"))
			slog.Error("can't get events", "error", err)
			return
		}
		select {
		case as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		respBody := make([]OneEventListItem, 0)
		for _, event := range eventModels {
			item := OneEventListItem{
				ID:       event.ID,
				Name:     event.Name,
				Date:     event.Date,
				Time:     event.Time,
				Location: event.Location,
				ImageURL: event.ImageURL,
			}
			// cheapest category, shown as "from ₹..." on the card
			var cheapest *model.EventCategory
			for _, category := range event.Categories {
				if cheapest == nil || category.Price.LessThan(cheapest.Price) {
					cheapest = category
				}
			}
			if cheapest != nil {
				item.PriceFrom = cheapest.FormattedPrice()
			}
			respBody = append(respBody, item)
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type OneCategoryRespBody struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Price          string `json:"price"`
		PriceFormatted string `json:"priceFormatted"`
	}

	type OneInfoSectionRespBody struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	type OneSponsorRespBody struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		LogoURL string `json:"logoUrl"`
	}

	type EventDetailRespBody struct {
		ID               string                   `json:"id"`
		Name             string                   `json:"name"`
		Date             string                   `json:"date"`
		Time             string                   `json:"time"`
		Location         string                   `json:"location"`
		Description      string                   `json:"description"`
		DeadlineUnixUTC  int64                    `json:"deadlineUnixUTC"`
		ImageURL         string                   `json:"imageUrl"`
		CourseMapURL     string                   `json:"courseMapUrl"`
		RegistrationOpen bool                     `json:"registrationOpen"`
		Countdown        countdown.Snapshot       `json:"countdown"`
		Categories       []OneCategoryRespBody    `json:"categories"`
		InfoSections     []OneInfoSectionRespBody `json:"infoSections"`
		Sponsors         []OneSponsorRespBody     `json:"sponsors"`
	}

	// event detail + registration page data
	muxer.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

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

		now := time.Now()
		respBody := EventDetailRespBody{
			ID:               eventModel.ID,
			Name:             eventModel.Name,
			Date:             eventModel.Date,
			Time:             eventModel.Time,
			Location:         eventModel.Location,
			Description:      eventModel.Description,
			DeadlineUnixUTC:  eventModel.DeadlineUnixUTC,
			ImageURL:         eventModel.ImageURL,
			CourseMapURL:     eventModel.CourseMapURL,
			RegistrationOpen: eventModel.RegistrationOpenAt(now),
			Countdown:        countdown.At(time.Unix(eventModel.DeadlineUnixUTC, 0).UTC(), now),
			Categories:       make([]OneCategoryRespBody, 0),
			InfoSections:     make([]OneInfoSectionRespBody, 0),
			Sponsors:         make([]OneSponsorRespBody, 0),
		}
		for _, category := range eventModel.Categories {
			respBody.Categories = append(respBody.Categories, OneCategoryRespBody{
				ID:             category.ID,
				Name:           category.Name,
				Price:          category.Price.String(),
				PriceFormatted: category.FormattedPrice(),
			})
		}
		for _, infoSection := range eventModel.InfoSections {
			respBody.InfoSections = append(respBody.InfoSections, OneInfoSectionRespBody{
				ID:      infoSection.ID,
				Title:   infoSection.Title,
				Content: infoSection.Content,
			})
		}
		for _, sponsor := range eventModel.Sponsors {
			respBody.Sponsors = append(respBody.Sponsors, OneSponsorRespBody{
				ID:      sponsor.ID,
				Name:    sponsor.Name,
				LogoURL: sponsor.LogoURL,
			})
		}

		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}

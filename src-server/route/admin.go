package route

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"stridercup/src-server/model"
	"stridercup/src-server/storage"
	"stridercup/src-server/utils"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type AdminCategoryBody struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type AdminInfoSectionBody struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AdminSponsorBody struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

type AdminEventBody struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Date        string `json:"date"` // ISO or natural language
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`

	// either field works; the natural-language one wins when both are set
	Deadline        string `json:"deadline,omitempty"`
	DeadlineUnixUTC int64  `json:"deadlineUnixUTC"`

	PaymentLink        string `json:"paymentLink"`
	WebhookURL         string `json:"webhookUrl"`
	ImageURL           string `json:"imageUrl"`
	CourseMapURL       string `json:"courseMapUrl"`
	RegistrationStatus string `json:"registrationStatus"`

	CreatedAtUnixUTC int64 `json:"createdAtUnixUTC,omitempty"`

	Categories   []AdminCategoryBody    `json:"categories"`
	InfoSections []AdminInfoSectionBody `json:"infoSections"`
	Sponsors     []AdminSponsorBody     `json:"sponsors"`
}

// Admin wires the event CRUD panel: list, load one for editing, create,
// update (full replace of child collections), delete, and the banner upload
// that backs the form's image field. Everything sits behind the session
// middleware.
func Admin(muxer *http.ServeMux, as *utils.AppState, bucket *storage.Bucket) {
	// all events, newest first
	muxer.HandleFunc("GET /api/admin/events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			eventModels := make([]model.Event, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&eventModels).
				Order("created_at DESC").
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get events"))
				slog.Error("can't get events", "error", err)
				return
			}

			respBody := make([]AdminEventBody, 0)
			for _, event := range eventModels {
				respBody = append(respBody, eventToAdminBody(&event))
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// one event with its child collections, for the edit form
	muxer.HandleFunc("GET /api/admin/events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
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

			respBodyJson, err := json.Marshal(eventToAdminBody(eventModel))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// create, the success response is the new event ID
	muxer.HandleFunc("POST /api/admin/events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			saveEvent(w, r, as, uuid.NewString(), false)
		}))

	// update by ID, children replaced wholesale
	muxer.HandleFunc("PUT /api/admin/events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			saveEvent(w, r, as, r.PathValue("id"), true)
		}))

	// delete; categories/info sections/sponsors cascade via the model hook
	muxer.HandleFunc("DELETE /api/admin/events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			id := r.PathValue("id")

			exists, err := as.BunDB.
				NewSelect().
				Model((*model.Event)(nil)).
				Where("id = ?", id).
				Exists(r.Context())
			switch {
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't check if event exists"))
				slog.Error("can't check if event exists", "error", err)
				return
			case !exists:
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Event not found"))
				return
			}

			startTimer := time.Now()
			if _, err := as.BunDB.NewDelete().
				Model((*model.Event)(nil)).
				Where("id = ?", id).
				Exec(context.WithValue(r.Context(), model.EventIDCtxKey, id)); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete event"))
				slog.Error("can't delete event", "error", err)
				return
			}
			select {
			case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
			default:
			}

			w.WriteHeader(http.StatusOK)
		}))

	// banner upload, the success response is the public URL
	muxer.HandleFunc("POST /api/admin/upload", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			if bucket == nil || !bucket.Enabled() {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Uploads are not configured"))
				return
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide a file"))
				return
			}
			defer file.Close()

			var buf bytes.Buffer
			if _, err := io.Copy(&buf, file); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't read the file"))
				slog.Error("can't read the uploaded file", "error", err)
				return
			}
			hash, err := utils.GetFileHash(bytes.NewReader(buf.Bytes()))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't hash the file"))
				slog.Error("can't hash the uploaded file", "error", err)
				return
			}
			objectName := hash + strings.ToLower(filepath.Ext(header.Filename))

			publicURL, err := bucket.Upload(
				r.Context(),
				objectName,
				header.Header.Get("Content-Type"),
				bytes.NewReader(buf.Bytes()),
			)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't upload the file"))
				slog.Error("can't upload the banner", "error", err)
				return
			}

			respBodyJson, err := json.Marshal(struct {
				URL string `json:"url"`
			}{URL: publicURL})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))
}

// saveEvent persists the admin form: upsert the event row, then delete and
// re-insert every child row inside one transaction so a failure partway
// can't leave a child collection empty.
func saveEvent(w http.ResponseWriter, r *http.Request, as *utils.AppState, eventID string, mustExist bool) {
	w.Header().Set("Content-Type", "application/json")

	var reqBody AdminEventBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid request body"))
		return
	}

	if mustExist {
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Event)(nil)).
			Where("id = ?", eventID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if event exists"))
			slog.Error("can't check if event exists", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}
	}

	date, err := parseDateField(as, reqBody.Date)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Can't understand the date"))
		return
	}

	deadlineUnixUTC := reqBody.DeadlineUnixUTC
	if reqBody.Deadline != "" {
		deadline, err := parseDeadlineField(as, reqBody.Deadline)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Can't understand the deadline"))
			return
		}
		deadlineUnixUTC = deadline.UTC().Unix()
	}
	if deadlineUnixUTC == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Please provide a registration deadline"))
		return
	}

	eventModel := model.Event{
		ID:                 eventID,
		Name:               utils.CleanupString(reqBody.Name),
		Date:               date.Format("2006-01-02"),
		Time:               reqBody.Time,
		Location:           reqBody.Location,
		Description:        reqBody.Description,
		DeadlineUnixUTC:    deadlineUnixUTC,
		PaymentLink:        reqBody.PaymentLink,
		WebhookURL:         reqBody.WebhookURL,
		ImageURL:           reqBody.ImageURL,
		CourseMapURL:       reqBody.CourseMapURL,
		RegistrationStatus: model.RegistrationStatusType(reqBody.RegistrationStatus),
	}

	categories := make([]*model.EventCategory, 0, len(reqBody.Categories))
	for _, category := range reqBody.Categories {
		price, err := decimal.NewFromString(category.Price)
		if err != nil || price.IsNegative() {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(fmt.Sprintf("Invalid price for category %q", category.Name)))
			return
		}
		categories = append(categories, &model.EventCategory{
			ID:    uuid.NewString(),
			Name:  category.Name,
			Price: price,
		})
	}
	infoSections := make([]*model.EventInfoSection, 0, len(reqBody.InfoSections))
	for _, infoSection := range reqBody.InfoSections {
		infoSections = append(infoSections, &model.EventInfoSection{
			ID:      uuid.NewString(),
			Title:   infoSection.Title,
			Content: infoSection.Content,
		})
	}
	sponsors := make([]*model.EventSponsor, 0, len(reqBody.Sponsors))
	for _, sponsor := range reqBody.Sponsors {
		sponsors = append(sponsors, &model.EventSponsor{
			ID:      uuid.NewString(),
			Name:    sponsor.Name,
			LogoURL: sponsor.LogoURL,
		})
	}

	startTimer := time.Now()
	if err := as.BunDB.RunInTx(r.Context(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := eventModel.Upsert(ctx, tx); err != nil {
			return err
		}
		return eventModel.ReplaceChildren(ctx, tx, categories, infoSections, sponsors)
	}); err != nil {
		if errors.Is(err, model.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event data"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't save event"))
		slog.Error("can't save event", "id", eventID, "error", err)
		return
	}
	select {
	case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
	default:
	}

	respBodyJson, err := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: eventID})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't marshal response body"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respBodyJson)
}

// parseDateField accepts an ISO date or anything the natural-language
// parser understands ("next sunday").
func parseDateField(as *utils.AppState, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("parseDateField: date is blank")
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, as.Config.GetLocation()); err == nil {
		return t, nil
	}
	result, err := as.When.Parse(raw, time.Now().In(as.Config.GetLocation()))
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("parseDateField: can't parse %q", raw)
	}
	return result.Time, nil
}

// parseDeadlineField accepts an ISO date or datetime, or natural language
// ("friday 6pm").
func parseDeadlineField(as *utils.AppState, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, as.Config.GetLocation()); err == nil {
			return t, nil
		}
	}
	result, err := as.When.Parse(raw, time.Now().In(as.Config.GetLocation()))
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("parseDeadlineField: can't parse %q", raw)
	}
	return result.Time, nil
}

func eventToAdminBody(event *model.Event) AdminEventBody {
	body := AdminEventBody{
		ID:                 event.ID,
		Name:               event.Name,
		Date:               event.Date,
		Time:               event.Time,
		Location:           event.Location,
		Description:        event.Description,
		DeadlineUnixUTC:    event.DeadlineUnixUTC,
		PaymentLink:        event.PaymentLink,
		WebhookURL:         event.WebhookURL,
		ImageURL:           event.ImageURL,
		CourseMapURL:       event.CourseMapURL,
		RegistrationStatus: string(event.RegistrationStatus),
		CreatedAtUnixUTC:   event.CreatedAtUnixUTC,
		Categories:         make([]AdminCategoryBody, 0),
		InfoSections:       make([]AdminInfoSectionBody, 0),
		Sponsors:           make([]AdminSponsorBody, 0),
	}
	for _, category := range event.Categories {
		body.Categories = append(body.Categories, AdminCategoryBody{
			ID:    category.ID,
			Name:  category.Name,
			Price: category.Price.String(),
		})
	}
	for _, infoSection := range event.InfoSections {
		body.InfoSections = append(body.InfoSections, AdminInfoSectionBody{
			ID:      infoSection.ID,
			Title:   infoSection.Title,
			Content: infoSection.Content,
		})
	}
	for _, sponsor := range event.Sponsors {
		body.Sponsors = append(body.Sponsors, AdminSponsorBody{
			ID:      sponsor.ID,
			Name:    sponsor.Name,
			LogoURL: sponsor.LogoURL,
		})
	}
	return body
}

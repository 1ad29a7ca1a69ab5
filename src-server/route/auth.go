package route

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"stridercup/src-server/model"
	"stridercup/src-server/utils"
	"time"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	type AuthReqBody struct {
		Password string `json:"password"`
	}

	// admin login, the success response sets the session cookie
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		if subtle.ConstantTimeCompare(
			[]byte(reqBody.Password),
			[]byte(as.Config.GetAdminPassword()),
		) != 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Wrong password"))
			return
		}

		newSessionSecret := uuid.NewString()
		if _, err := as.BunDB.
			NewInsert().
			Model(&model.Session{
				Secret:           newSessionSecret,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create session in DB"))
			slog.Error("can't create session in DB", "error", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionSecretCookieName,
			Value:    newSessionSecret,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	})

	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		if sessionCookie, err := r.Cookie(SessionSecretCookieName); err == nil {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionCookie.Value).
				Exec(r.Context()); err != nil {
				slog.Warn("can't delete session in DB", "error", err)
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionSecretCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	})
}

package route

import (
	"encoding/json"
	"net/http"
	"stridercup/src-server/genai"
	"stridercup/src-server/utils"
)

// The AI coach widget: one question or image prompt in, one reply out.
// Degrades to canned replies when no API key is configured.
func Coach(muxer *http.ServeMux, as *utils.AppState, client *genai.Client) {
	type TipReqBody struct {
		Topic string `json:"topic"`
	}

	type TipRespBody struct {
		Tip string `json:"tip"`
	}

	muxer.HandleFunc("POST /api/coach/tip", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody TipReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.Topic == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a topic"))
			return
		}

		respBodyJson, err := json.Marshal(TipRespBody{
			Tip: client.CoachTip(r.Context(), reqBody.Topic),
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type ImageReqBody struct {
		Prompt string `json:"prompt"`
	}

	type ImageRespBody struct {
		// data URL, null when nothing came back
		Image *string `json:"image"`
	}

	muxer.HandleFunc("POST /api/coach/image", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody ImageReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.Prompt == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a prompt"))
			return
		}

		respBody := ImageRespBody{}
		if image := client.EventImage(r.Context(), reqBody.Prompt); image != "" {
			respBody.Image = &image
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

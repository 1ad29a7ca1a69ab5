package route

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"stridercup/src-server/utils"
)

// SPA serves the built web client with an index.html fallback so client-side
// routes like /event/{id} and /admin resolve.
func SPA(muxer *http.ServeMux, as *utils.AppState) {
	if as.Config.GetStaticWebClientDir() == "" {
		return
	}

	files := http.FS(os.DirFS(as.Config.GetStaticWebClientDir()))
	if file, err := files.Open("index.html"); err != nil {
		slog.Error("can't open index.html", "error", err)
		return
	} else {
		file.Close()
	}

	// concurrent requests each need their own handle; ServeContent seeks
	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		file, err := files.Open("index.html")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't open index.html"))
			slog.Error("can't open index.html", "error", err)
			return
		}
		defer file.Close()
		stat, err := file.Stat()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get index.html stat"))
			slog.Error("can't get index.html stat", "error", err)
			return
		}
		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		filepath := filepath.Clean(r.PathValue("filepath"))
		if filepath == "." {
			filepath = "index.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}

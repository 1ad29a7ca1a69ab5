package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stridercup/src-server/genai"
	"stridercup/src-server/metric"
	"stridercup/src-server/model"
	"stridercup/src-server/route"
	"stridercup/src-server/scheduler"
	"stridercup/src-server/storage"
	"stridercup/src-server/utils"
	"stridercup/src-server/webhook"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// external collaborators
	forwarder := webhook.NewForwarder()
	forwarder.LatencyChan = as.MetricChans.WebhookDelivery
	coachClient := genai.NewClient(as.Config.GetGeminiApiKey())
	bannerBucket := storage.NewBucket(
		as.Config.GetStorageURL(),
		as.Config.GetStorageKey(),
		as.Config.GetStorageBucket(),
	)

	go metric.Init(as)
	go scheduler.DeadlineWatch(as)

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Auth(muxer, as)
		route.Events(muxer, as)
		route.Register(muxer, as, forwarder)
		route.Coach(muxer, as, coachClient)
		route.Admin(muxer, as, bannerBucket)
		route.SPA(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}

package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/config"
	"github.com/example/mangiaebasta/internal/location"
	"github.com/example/mangiaebasta/internal/logging"
	"github.com/example/mangiaebasta/internal/services"
	"github.com/example/mangiaebasta/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := storage.Open(cfg.CacheDSN, cfg.DBLogLevel, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open local cache")
	}

	telegram, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	if err != nil {
		log.WithError(err).Warn("telegram alerts disabled")
		telegram = nil
	}
	notifiers := services.MultiNotifier{services.WriterNotifier{Out: os.Stdout}}
	if telegram != nil {
		notifiers = append(notifiers, telegram)
	}

	term := newTerminal(os.Stdout, readLines(os.Stdin))

	app, err := services.Bootstrap(ctx, services.Deps{
		Backend:      api.NewClient(cfg.APIBaseURL, cfg.APITimeout, log),
		Cache:        cache,
		Location:     location.NewService(location.FromConfig(cfg.Location), log),
		Notifier:     notifiers,
		Confirmer:    services.ConfirmFunc(term.confirm),
		Logger:       log,
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		_ = cache.Close()
		log.WithError(err).Fatal("failed to start")
	}
	defer app.Close()

	term.run(ctx, app)
}

// readLines feeds stdin to a channel so the order screen can wait for
// Enter while it polls. The channel closes on EOF.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

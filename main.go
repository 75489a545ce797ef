package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/config"
	"github.com/mbolis/quick-form/database"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/metrics"
	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/routes"
	"github.com/mbolis/quick-form/schema"
	"github.com/spf13/cobra"
)

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		report(err)
		os.Exit(1)
	}
}

// reportedError marks an error whose details were already written out.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// report logs err unless the command that failed already did.
func report(err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	log.Error(err)
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "quick-form",
		Short:         "Serve a schema-driven form and collect its submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := cfg.Finish()
			if err != nil {
				return err
			}
			log.SetFormat(cfg.LogFormat)
			if cfg.Debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newCheckCmd(&cfg))
	return root
}

func loadSchema(cfg config.Config) (*model.FormSchema, error) {
	if cfg.SchemaPath == "" {
		log.Debug("main.schema: using embedded onboarding form")
		return schema.Default(time.Now())
	}
	return schema.LoadFile(cfg.SchemaPath, time.Now())
}

func serve(ctx context.Context, cfg config.Config) error {
	formSchema, err := loadSchema(cfg)
	if err != nil {
		log.Error("main.schema:", err)
		return reportedError{err}
	}
	log.Infof("Loaded form %q with %d fields", formSchema.Title, len(formSchema.Fields))

	store, err := database.Open(ctx, cfg.DBUrl)
	if err != nil {
		log.Error("main.db.open:", err)
		return reportedError{err}
	}
	defer func() {
		err := store.Close()
		if err != nil {
			log.Error("main.db.close:", err)
		}
	}()

	app := app.App{
		Store:   store,
		Schema:  formSchema,
		Metrics: metrics.New(),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runServer(ctx, cfg, handler)
	if err != nil {
		log.Error("main.server:", err)
		return reportedError{err}
	}
	return nil
}

// runServer serves until ctx is done, then drains in-flight requests for at
// most cfg.ShutdownTimeout before closing every connection.
func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Listening on " + cfg.Url())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Forcefully closing:", err)
		srv.Close()
		return err
	}

	err = <-serveErr
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server closed")
	return nil
}

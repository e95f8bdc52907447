package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/middleware"
	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/repositories"
	"doctor-survey-targeting/predictions/routes"
	"doctor-survey-targeting/predictions/services"
	"doctor-survey-targeting/utils"
	"doctor-survey-targeting/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile  string
	settings config.Settings

	predictTime string
	csvPath     string
	xlsxPath    string
)

var rootCmd = &cobra.Command{
	Use:   "survey-targeting",
	Short: "Doctor Survey Targeting System",
	Long: `Doctor Survey Targeting System picks the doctors most likely to answer a
survey sent at a given time of day, using the external prediction service.

Run without arguments to start the web front-end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv(envFile)

		var err error
		settings, err = config.LoadSettings()
		if err != nil {
			return err
		}
		if err := config.InitLogger(settings.LogDir, settings.LogLevel, settings.LogConsole); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = config.Logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fetch recommendations for a time and print them",
	Example: `  survey-targeting predict --time 14:30
  survey-targeting predict --time 09:00 --csv predictions.csv --xlsx predictions.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load when present")

	predictCmd.Flags().StringVar(&predictTime, "time", "", "time of day (HH:MM)")
	predictCmd.Flags().StringVar(&csvPath, "csv", "", "write the results as CSV to this file (\"-\" for stdout)")
	predictCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the results as an Excel workbook to this file")
	_ = predictCmd.MarkFlagRequired("time")

	rootCmd.AddCommand(serveCmd, predictCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newPredictionClient() *services.PredictionClient {
	return services.NewPredictionClient(settings.PredictionAPIURL,
		services.WithTimeout(settings.PredictionTimeout),
		services.WithRatePerMinute(settings.PredictionRatePerMinute),
	)
}

func runServe(ctx context.Context) error {
	app := fiber.New(fiber.Config{
		AppName:               "survey-targeting",
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestLogger)
	middleware.InitCors(app, settings.AllowOrigins)

	var stateRepo repositories.ViewStateRepository
	if settings.RedisAddress != "" {
		redisClient, err := config.InitRedisServer(ctx, settings.RedisAddress, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			config.Logger.Error("Cannot connect to Redis", zap.Error(err))
			return err
		}
		defer redisClient.Close()
		stateRepo = repositories.NewRedisViewStateRepository(redisClient, settings.ViewStateTTL)
		config.Logger.Info("View state stored in Redis", zap.String("address", settings.RedisAddress))
	} else {
		stateRepo = repositories.NewMemoryViewStateRepository()
		config.Logger.Info("REDIS_ADDRESS not set, keeping view state in memory")
	}

	// ------ WebSocket Hub for live view state ------
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	orchestrator := services.NewPredictionOrchestrator(newPredictionClient(), stateRepo, wsHub)

	// Routes
	routes.PredictionRouterInit(app, orchestrator)

	wsHandler := websocket.NewWsHandler(wsHub, orchestrator)
	app.Get("/ws", wsHandler.HandleWebSocket)

	// Background cleanup of idle page views
	scheduler, err := utils.RunScheduledCleanup(settings.CleanupSchedule, stateRepo, settings.ViewStateTTL)
	if err != nil {
		config.Logger.Error("Cannot schedule view state cleanup", zap.Error(err))
		return err
	}
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Info("Server starting",
			zap.String("port", settings.Port),
			zap.String("predictionAPI", settings.PredictionAPIURL))
		errCh <- app.Listen(":" + settings.Port)
	}()

	select {
	case err := <-errCh:
		config.Logger.Error("Server failed", zap.String("port", settings.Port), zap.Error(err))
		return err
	case <-ctx.Done():
	}

	config.Logger.Info("Server shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func runPredict(ctx context.Context) error {
	form := services.TimeForm{Time: predictTime}

	var predictErr error
	submitted := form.Submit(func(timeOfDay string) {
		var doctors []models.DoctorRecommendation
		doctors, predictErr = newPredictionClient().Predict(ctx, timeOfDay)
		if predictErr != nil {
			return
		}
		predictErr = printResults(doctors)
	})
	if !submitted {
		return errors.New("time is required")
	}
	if predictErr != nil {
		var pe *services.PredictionError
		if errors.As(predictErr, &pe) || errors.Is(predictErr, services.ErrFetchFailed) || errors.Is(predictErr, services.ErrInvalidResponse) {
			return errors.New(services.UserMessage(predictErr))
		}
		return predictErr
	}
	return nil
}

func printResults(doctors []models.DoctorRecommendation) error {
	if len(doctors) == 0 {
		fmt.Println("No doctors returned.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NPI\tSPECIALTY\tREGION\tSCORE\tBAND")
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\t%s\n",
			d.DisplayNPI(), d.DisplaySpecialty(), d.DisplayRegion(), d.ScoreText(),
			services.BandForScore(d.LikelihoodScore).Label())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	now := time.Now()
	if csvPath != "" {
		content, _ := services.BuildCSV(doctors)
		if csvPath == "-" {
			fmt.Println(content)
		} else if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", csvPath, err)
		} else {
			fmt.Printf("CSV written to %s (download name %s)\n", csvPath, services.ExportFileName(now, "csv"))
		}
	}
	if xlsxPath != "" {
		content, _, err := services.BuildExcel(doctors)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", xlsxPath, err)
		}
		fmt.Printf("Excel workbook written to %s\n", xlsxPath)
	}
	return nil
}

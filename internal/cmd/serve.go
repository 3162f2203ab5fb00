package cmd

import (
	"fmt"
	"log"

	"gamerx/internal/config"
	"gamerx/internal/database"
	"gamerx/internal/mail"
	"gamerx/internal/repository"
	"gamerx/internal/repository/memory"
	"gamerx/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. By default it connects to PostgreSQL and migrates the
schema first; with --memory it keeps everything in process, which is handy for demos.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "use the in-memory store instead of PostgreSQL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	var repos repository.Set
	if serveMemory {
		log.Println("Using in-memory store; data is lost on exit.")
		repos, _ = memory.NewSet()
	} else {
		db, err := database.NewConnection(cfg.DB)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		log.Println("Connected to PostgreSQL successfully.")

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		repos = repository.NewSet(db)
	}

	var mailer mail.Sender
	if cfg.SMTP.MailEnabled() {
		mailer = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Println("SMTP_HOST not set, verification mail will be logged instead of sent")
		mailer = mail.NewLogSender()
	}

	router := server.NewRouter(cfg, repos, mailer)

	log.Printf("Server listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebogdum/bucketfs/backends"
	"github.com/ebogdum/bucketfs/backends/s3"
	"github.com/ebogdum/bucketfs/config"
	"github.com/ebogdum/bucketfs/fslink"
	"github.com/ebogdum/bucketfs/server"
)

var rootCmd = &cobra.Command{
	Use:   "bucketfs",
	Short: "bucketfs - file-system semantics over object storage",
	Long: `bucketfs emulates a directory tree over a flat object-storage namespace:
directories are zero-byte marker objects, files map directly to objects.
It serves the emulated tree over HTTP and through object commands.`,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the bucketfs server",
	Long:  "Start the bucketfs HTTP gateway over the configured bucket",
	RunE:  runServer,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the bucketfs configuration and display the loaded settings",
	RunE:  validateConfig,
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the children of a directory",
	RunE:  runList,
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Read a file and write its content to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var putCmd = &cobra.Command{
	Use:   "put <local-file> <path>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	RunE:  runPut,
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or directory marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

var (
	configFilePath string
	listRecursive  bool
	removeDir      bool
	removeRecurse  bool
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")
	lsCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "List all descendants")
	rmCmd.Flags().BoolVarP(&removeDir, "dir", "d", false, "Remove a directory marker instead of a file")
	rmCmd.Flags().BoolVar(&removeRecurse, "recursive", false, "Skip the empty-directory check (marker only; children stay)")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serverCmd, configCmd, lsCmd, getCmd, putCmd, rmCmd, mkdirCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// newFileSystem loads configuration and constructs the storage adapter.
func newFileSystem(logger *zap.Logger) (backends.FileSystem, error) {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	creds, err := cfg.Storage.LoadCredentials()
	if err != nil {
		return nil, err
	}

	fs, err := s3.New(cfg.Storage.BucketName, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage adapter: %w", err)
	}

	return fs, nil
}

// runServer starts the bucketfs server
func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()

	logger.Info("Starting bucketfs server",
		zap.String("bucket", cfg.Storage.BucketName),
		zap.String("listen_addr", cfg.Server.ListenAddr))

	creds, err := cfg.Storage.LoadCredentials()
	if err != nil {
		return err
	}

	fs, err := s3.New(cfg.Storage.BucketName, creds, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage adapter: %w", err)
	}
	defer fs.Close()

	router := server.NewRouter(fs, &cfg.Server, logger)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.Server.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}

// validateConfig validates the bucketfs configuration and displays settings
func validateConfig(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		fmt.Printf("❌ Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Println("✅ Configuration is valid")
	fmt.Printf("Listen Address: %s\n", cfg.Server.ListenAddr)
	fmt.Printf("Bucket: %s\n", cfg.Storage.BucketName)
	if cfg.Storage.CredentialsFile != "" {
		fmt.Printf("Credentials File: %s\n", cfg.Storage.CredentialsFile)
	}

	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) > 0 {
		path = args[0]
	}

	fs, err := newFileSystem(zap.NewNop())
	if err != nil {
		return err
	}
	defer fs.Close()

	opts := &fslink.ListOptions{Recursive: listRecursive, IncludeDirectories: true}
	infos, err := fs.ListChildren(context.Background(), path, opts)
	if err != nil {
		return err
	}

	for _, info := range infos {
		if info.IsDir() {
			fmt.Printf("%12s  %s/\n", "-", info.Path)
			continue
		}
		fmt.Printf("%12d  %s\n", info.Size, info.Path)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	fs, err := newFileSystem(zap.NewNop())
	if err != nil {
		return err
	}
	defer fs.Close()

	return fs.ReadFile(context.Background(), args[0], os.Stdout)
}

func runPut(cmd *cobra.Command, args []string) error {
	local, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer local.Close()

	fs, err := newFileSystem(zap.NewNop())
	if err != nil {
		return err
	}
	defer fs.Close()

	info, err := fs.WriteFile(context.Background(), args[1], local, true)
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %s (%d bytes)\n", info.Path, info.Size)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	fs, err := newFileSystem(zap.NewNop())
	if err != nil {
		return err
	}
	defer fs.Close()

	if removeDir {
		return fs.DeleteDirectory(context.Background(), args[0], removeRecurse)
	}
	return fs.DeleteFile(context.Background(), args[0])
}

func runMkdir(cmd *cobra.Command, args []string) error {
	fs, err := newFileSystem(zap.NewNop())
	if err != nil {
		return err
	}
	defer fs.Close()

	info, err := fs.CreateDirectory(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("created %s\n", info.Path)
	return nil
}

// initializeLogger creates a zap logger based on configuration
func initializeLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config

	if logCfg.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logCfg.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}

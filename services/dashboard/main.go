package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/obd-dashboard/commonGo"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/factory"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "dashboard"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	envFile              = "./.env"
	envServiceKey        = "SERVICE_KEY"
	envAuthUsername      = "AUTH_USERNAME"
	envAuthPassword      = "AUTH_PASSWORD"
	envSessionKey        = "SESSION_KEY"
	inMemoryDB           = ":memory:"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	dashboardHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("dashboard")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,api:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the api package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logSaveFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the dashboard will store the recordings and logs.",
		Value: "",
	}
	// configFile defines the TOML configuration file
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "This flag specifies the `path` of the TOML configuration file.",
		Value: "./config.toml",
	}
	// terminal enables the interactive terminal dashboard
	terminal = cli.BoolFlag{
		Name:  "terminal",
		Usage: "Boolean option for rendering the dashboard in the terminal. The console logs are then saved into a file.",
	}

	envFileContents = map[string]string{
		envServiceKey:   "",
		envAuthUsername: "",
		envAuthPassword: "",
		envSessionKey:   "",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = dashboardHelpTemplate
	app.Name = "OBD live telemetry dashboard"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting the live telemetry dashboard of a vehicle diagnostic session"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
		terminal,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	withTerminal := ctx.GlobalBool(terminal.Name)
	saveLogFile := ctx.GlobalBool(logSaveFile.Name) || withTerminal
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("Starting dashboard service", "version", appVersion, "pid", os.Getpid())

	err = commonGo.ReadEnvFile(envFile, envFileContents, envSessionKey)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(ctx.GlobalString(configFile.Name))
	if err != nil {
		return err
	}
	cfg.Recording.DBPath = resolveDBPath(workingDir, cfg.Recording.DBPath)

	components, err := factory.NewComponentsHandler(factory.ArgsComponentsHandler{
		ServiceKeyApi: envFileContents[envServiceKey],
		SessionKeyApi: envFileContents[envSessionKey],
		AuthUsername:  envFileContents[envAuthUsername],
		AuthPassword:  envFileContents[envAuthPassword],
		WithTerminal:  withTerminal,
		Config:        *cfg,
	})
	if err != nil {
		return err
	}

	err = components.Start()
	if err != nil {
		components.Close()
		return err
	}

	log.Info("Dashboard service started", "address", components.GetServer().Address(), "graph targets", cfg.GraphTargets)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	viewDone := make(chan struct{})
	viewCtx, cancelView := context.WithCancel(context.Background())
	view := components.GetTerminalView()
	if !check.IfNil(view) {
		// the terminal owns stdout from now on
		_ = logger.RemoveLogObserver(os.Stdout)

		go func() {
			defer close(viewDone)

			errRun := view.Run(viewCtx)
			if errRun != nil {
				log.Error("terminal view failed", "error", errRun)
			}
		}()
	}

	select {
	case <-sigs:
	case <-viewDone:
	}
	cancelView()

	log.Info("Application closing, calling Close on all subcomponents...")
	components.Close()

	return nil
}

func resolveDBPath(workingDir string, dbPath string) string {
	if dbPath == inMemoryDB || filepath.IsAbs(dbPath) {
		return dbPath
	}

	return filepath.Join(workingDir, dbPath)
}

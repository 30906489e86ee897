package commonGo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	var err error
	var logFile FileLoggingHandler
	if saveLogFile {
		argsFileLogging := file.ArgsFileLogging{
			WorkingDir:      workingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		logFile, err = file.NewFileLogging(argsFileLogging)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	return logFile, nil
}

// ReadEnvFile will read the file contents in the provided map. Keys listed in optional may be missing or empty.
func ReadEnvFile(envFile string, m map[string]string, optional ...string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		return err
	}

	optionalKeys := make(map[string]struct{}, len(optional))
	for _, key := range optional {
		optionalKeys[key] = struct{}{}
	}

	for k := range m {
		val := os.Getenv(k)
		_, isOptional := optionalKeys[k]
		if len(val) == 0 && !isOptional {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		m[k] = val
	}

	return nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall. The returned channel is closed after the go routine exits, so callers can wait for the last
// handler call to finish after cancelling the context.
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				if ctx.Err() != nil {
					return
				}
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}

package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Logger is the global logger for azvnet
var Logger = logrus.New()

// exit is swapped in tests so LogError can be exercised without ending the process.
var exit = os.Exit

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetLogFile points the logger at an append-only log file. The CLI calls this once azvnet.log
// should collect the run; before that everything goes to stderr.
func SetLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	Logger.SetOutput(f)
	return f, nil
}

// SetLogOutput sets the log output destination
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// SetLogLevel sets the logging level
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetJSONFormat enables JSON log format
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

// WithFields returns a logger entry carrying the provided fields
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return Logger.WithFields(fields)
}

func stdoutLine(level, msg string) {
	fmt.Printf("%s [%s] - %s\r\n", timestamp(), level, msg)
}

// LogError writes the error to azvnet.log and always prints an error to stdout.
// The process exits unless continue_on_error is set.
func LogError(msg string) {
	stdoutLine("ERROR", msg+" see azvnet.log for detailed information.")
	Logger.Error(msg)
	if viper.GetBool("continue_on_error") {
		return
	}
	exit(1)
}

// LogErrorf is LogError with formatting.
func LogErrorf(format string, a ...any) {
	LogError(fmt.Sprintf(format, a...))
}

// LogWarning writes the log to azvnet.log and optionally prints msg to stdout.
func LogWarning(msg string, stdout bool) {
	if stdout {
		stdoutLine("WARNING", msg)
	}
	Logger.Warn(msg)
}

// LogWarningf is LogWarning with formatting.
func LogWarningf(stdout bool, format string, a ...any) {
	LogWarning(fmt.Sprintf(format, a...), stdout)
}

// LogInfo writes the log to azvnet.log and optionally prints msg to stdout.
func LogInfo(msg string, stdout bool) {
	if stdout {
		stdoutLine("INFO", msg)
	}
	Logger.Info(msg)
}

// LogInfof is LogInfo with formatting.
func LogInfof(stdout bool, format string, a ...any) {
	LogInfo(fmt.Sprintf(format, a...), stdout)
}

// LogDebug writes the log to azvnet.log only if debug logging is enabled.
// Debug logic is not required in calling code.
func LogDebug(msg string) {
	Logger.Debug(msg)
}

// LogStartCommand is used at the beginning of each command
func LogStartCommand(commandName string) {
	Logger.Info("-----------------------------------------------------------------------------")
	LogInfo(fmt.Sprintf("azvnet version %s - started %s", GetVersion(), commandName), false)
	if viper.IsSet("snapshot_path") {
		LogInfo(fmt.Sprintf("using snapshot %s", viper.GetString("snapshot_path")), false)
	}
}

// LogEndCommand is used at the end of each command
func LogEndCommand(commandName string) {
	LogInfo(fmt.Sprintf("%s completed", commandName), true)
}

// LogBlankValue replaces a blank string with <empty>
func LogBlankValue(val string) string {
	if val == "" {
		return "<empty>"
	}
	return val
}

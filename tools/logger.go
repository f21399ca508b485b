package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = true

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

func IsLoggerEnabled() bool {
	return isEnabled
}

// LogOutput reports progress to the user through glog, unless the logger has been disabled
func LogOutput(val ...interface{}) {
	if !isEnabled {
		return
	}
	if printTimestamp {
		glog.InfoDepth(1, fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15.04:05.000"), fmt.Sprintln(val...)))
		return
	}
	glog.InfoDepth(1, fmt.Sprintln(val...))
}

// TimeTrack logs how long the named step took since start
func TimeTrack(start time.Time, name string) {
	LogOutput(fmt.Sprintf("%s took %s", name, time.Since(start)))
}

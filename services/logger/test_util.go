package logsvc

import (
	"io/ioutil"
	"log"

	"github.com/trezcool/academia/core"
)

// NewLoggerMock returns a disabled RollbarLogger that prints nothing.
func NewLoggerMock() *RollbarLogger {
	l := NewRollbarLogger(log.New(ioutil.Discard, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l
}

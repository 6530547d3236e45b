package source

import (
	"bytes"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// capture tees one source's log traffic into two in-memory buffers so the
// Result can carry its own diagnostic text: error level and above lands in
// the error buffer, everything else in the regular one. The parent logger
// still sees all of it.
type capture struct {
	logger *zap.Logger
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newCapture(parent *zap.Logger) *capture {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""
	enc := zapcore.NewConsoleEncoder(encCfg)

	below := zapcore.NewCore(enc, zapcore.AddSync(out), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.ErrorLevel
	}))
	above := zapcore.NewCore(enc, zapcore.AddSync(errOut), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	}))

	cores := []zapcore.Core{below, above}
	if parent != nil {
		cores = append(cores, parent.Core())
	}
	return &capture{
		logger: zap.New(zapcore.NewTee(cores...)),
		out:    out,
		errOut: errOut,
	}
}

// AppendToolOutput preserves an external tool's stdout/stderr verbatim.
func (c *capture) AppendToolOutput(stdout, stderr string) {
	if stdout != "" {
		c.out.WriteString(stdout)
		if !bytes.HasSuffix(c.out.Bytes(), []byte("\n")) {
			c.out.WriteByte('\n')
		}
	}
	if stderr != "" {
		c.errOut.WriteString(stderr)
		if !bytes.HasSuffix(c.errOut.Bytes(), []byte("\n")) {
			c.errOut.WriteByte('\n')
		}
	}
}

func (c *capture) Log() string      { return c.out.String() }
func (c *capture) LogError() string { return c.errOut.String() }

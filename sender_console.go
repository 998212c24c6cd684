package goCognito

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/MrEthical07/goCognito/pool"
)

// CodeRecorder mirrors delivered codes to a side channel so automated test
// harnesses can pick them up without scraping operator output. It replaces
// the environment-variable file drop the original tooling used.
type CodeRecorder interface {
	RecordCode(medium DeliveryMedium, destination string, message Message)
}

// CodeRecorderFunc adapts a function to the [CodeRecorder] interface.
type CodeRecorderFunc func(medium DeliveryMedium, destination string, message Message)

// RecordCode implements [CodeRecorder].
func (f CodeRecorderFunc) RecordCode(medium DeliveryMedium, destination string, message Message) {
	f(medium, destination, message)
}

// ConsoleMessageSender is the reference [MessageSender]: it renders each
// message as a framed block on an operator log. Real transports replace it
// per deployment.
type ConsoleMessageSender struct {
	Logger   *log.Logger
	Recorder CodeRecorder
}

// NewConsoleMessageSender creates a sender writing to logger (the standard
// logger when nil).
func NewConsoleMessageSender(logger *log.Logger) *ConsoleMessageSender {
	if logger == nil {
		logger = log.Default()
	}
	return &ConsoleMessageSender{Logger: logger}
}

// Send implements [MessageSender].
func (s *ConsoleMessageSender) Send(_ context.Context, medium DeliveryMedium, destination string, user pool.User, message Message) error {
	fields := []struct {
		name  string
		value string
	}{
		{"Username", user.Username},
		{"Medium", string(medium)},
		{"Destination", destination},
		{"Code", message.Code},
		{"Email Subject", message.EmailSubject},
		{"Email Message", message.EmailMessage},
		{"SMS Message", message.SMSMessage},
	}

	width := 0
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		line := fmt.Sprintf("%-14s %s", f.name+":", f.value)
		lines = append(lines, line)
		if len(line) > width {
			width = len(line)
		}
	}

	border := strings.Repeat("-", width+4)
	var b strings.Builder
	b.WriteString("\n" + border + "\n")
	b.WriteString("| Confirmation Code Delivery" + strings.Repeat(" ", max(0, width-25)) + " |\n")
	b.WriteString(border + "\n")
	for _, line := range lines {
		b.WriteString("| " + line + strings.Repeat(" ", width-len(line)) + " |\n")
	}
	b.WriteString(border)

	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Print(b.String())

	if s.Recorder != nil {
		s.Recorder.RecordCode(medium, destination, message)
	}
	return nil
}

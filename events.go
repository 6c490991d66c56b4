// Copyright 2025 The Verso Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package verso

import "log/slog"

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event.
	EventError EventType = iota
	// EventWarning indicates a warning event (e.g., a registry advisory).
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event from the pipeline: resolution
// failures, deprecated-version usage, registry advisories. The engine never
// logs directly; it hands events to the configured EventHandler.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events. Implementations can
// log them, feed monitoring, or drop them.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. A nil logger yields a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

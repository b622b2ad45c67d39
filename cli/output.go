package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting responses in text or JSON format
type Output struct {
	writer   io.Writer
	jsonMode bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, jsonMode bool) *Output {
	return &Output{
		writer:   w,
		jsonMode: jsonMode,
	}
}

// IsJSON returns true if output is in JSON mode
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// Error outputs an error message
func (o *Output) Error(err error) {
	if o.jsonMode {
		o.writeJSON(map[string]any{
			"error": err.Error(),
		})
	} else {
		fmt.Fprintf(o.writer, "Error: %v\n", err)
	}
}

// Success outputs a success message (text mode only, JSON uses specific methods)
func (o *Output) Success(format string, args ...any) {
	if !o.jsonMode {
		fmt.Fprintf(o.writer, format, args...)
	}
}

// Println outputs a line with newline (text mode only)
func (o *Output) Println(text string) {
	if !o.jsonMode {
		fmt.Fprintln(o.writer, text)
	}
}

// JSON outputs any value as JSON
func (o *Output) JSON(v any) {
	if o.jsonMode {
		o.writeJSON(v)
	}
}

// writeJSON marshals and writes JSON to the output
func (o *Output) writeJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(o.writer, `{"error":"failed to marshal JSON: %s"}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(o.writer, string(data))
}

// RemoveResponse reports a completed removal
type RemoveResponse struct {
	Kind     string `json:"kind"`
	Target   string `json:"target"`
	Reason   string `json:"reason,omitempty"`
	Activity string `json:"activity"`
}

// FollowResponse reports a follow or unfollow hand-off
type FollowResponse struct {
	Follower string `json:"follower"`
	Followee string `json:"followee"`
	Activity string `json:"activity"`
}

// HelpCommand describes a single command in JSON help output
type HelpCommand struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
}

// HelpResponse is the JSON help document
type HelpResponse struct {
	Version  string        `json:"version"`
	Commands []HelpCommand `json:"commands"`
}

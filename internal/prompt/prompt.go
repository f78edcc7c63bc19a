// Package prompt turns a (platform, task) selection into the instruction
// sent to the completion backend.
package prompt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Platforms offered in the platform dropdown.
const (
	PlatformStreamlit = "Streamlit"
	PlatformGradio    = "Gradio"
)

// Tasks offered in the task dropdown. The strings double as form values.
const (
	TaskAPIKey = "Get NVIDIA API Key"
	TaskCode   = "Code the Program on the select platform"
	TaskDeploy = "Deploy and test the App"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUnknownTask     = errors.New("unknown task")
)

const platformPlaceholder = "{platform}"

// Line breaks and trailing spaces are part of the instruction text.
var templates = map[string]string{
	TaskAPIKey: "\nSearch the web for information how to obtain an API key from Nvidia NGC and \n" +
		"give detailed instruction on to how to setup a huggingface space to host \n" +
		"a {platform} app that uses the Nvidia API. ",
	TaskCode: "\nCreate a {platform} app that gives the user an intuitive interface using a text \n" +
		"area to prompt the user for an input prompt.  Provide a button that sends the \n" +
		"input to the AI model.  The app displays the response to the page. \n" +
		"Give me the full python code for this app.",
	TaskDeploy: "\nGive detailed instruction on how to deploy and test a {platform} app on Hugging Face.\n        ",
}

var (
	platforms = []string{PlatformStreamlit, PlatformGradio}
	tasks     = []string{TaskAPIKey, TaskCode, TaskDeploy}
)

// Platforms returns the platform choices in display order.
func Platforms() []string {
	return append([]string(nil), platforms...)
}

// Tasks returns the task choices in display order.
func Tasks() []string {
	return append([]string(nil), tasks...)
}

// Build renders the instruction for task targeting platform.
// Both values must match a choice exactly.
func Build(platform, task string) (string, error) {
	if !slices.Contains(platforms, platform) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	tmpl, ok := templates[task]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
	return strings.ReplaceAll(tmpl, platformPlaceholder, platform), nil
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/killallgit/songpeaks/internal/playback"
	"github.com/killallgit/songpeaks/internal/timeline"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
)

const markHelp = `Marking commands (times are seconds or M:SS, as shown by the player):
  start [time]   mark the start at the current or given position
  end [time]     mark the end
  save <name>    save the marked range as a section
  cancel         clear the marks
  pause <time>   the player was paused at time
  resume         the player is playing again
  ended          the video finished
  error <code>   the player reported an error
  quit           leave`

// markSession reads marking commands from in until quit or EOF. Command
// errors are printed and the session goes on.
func markSession(ctx context.Context, in io.Reader, out io.Writer, a *app) error {
	marker := playback.NewMarker(a.binding, a.favorites)
	a.binding.HandleStateChange(playback.StatePlaying)

	fmt.Fprintln(out, markHelp)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		msg, err := markCommand(ctx, a, marker, fields[0], fields[1:])
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", apperrors.Message(err))
			continue
		}
		fmt.Fprintln(out, msg)
	}
	return scanner.Err()
}

func markCommand(ctx context.Context, a *app, marker *playback.Marker, name string, args []string) (string, error) {
	switch name {
	case "start", "end":
		if len(args) > 0 {
			if err := pausedAt(a, args[0]); err != nil {
				return "", err
			}
		}
		if name == "start" {
			if err := marker.MarkStart(); err != nil {
				return "", err
			}
		} else if err := marker.MarkEnd(); err != nil {
			return "", err
		}
		return fmt.Sprintf("Marked %s at %s", name, timeline.FormatTime(a.binding.CurrentTime())), nil
	case "save":
		section, err := marker.Save(ctx, strings.Join(args, " "))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved %q (%s)", section.Name, formatRange(section.StartSeconds, section.EndSeconds)), nil
	case "cancel":
		marker.Cancel()
		return "Marks cleared", nil
	case "pause":
		if len(args) == 0 {
			return "", apperrors.ValidationError("time", "pause needs the position shown by the player")
		}
		if err := pausedAt(a, args[0]); err != nil {
			return "", err
		}
		return "Paused at " + timeline.FormatTime(a.binding.CurrentTime()), nil
	case "resume":
		a.binding.HandleStateChange(playback.StatePlaying)
		return "Playing", nil
	case "ended":
		a.binding.HandleStateChange(playback.StateEnded)
		return "Playback ended", nil
	case "error":
		if len(args) == 0 {
			return "", apperrors.ValidationError("code", "error needs the player error code")
		}
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return "", apperrors.ValidationError("code", "must be a number")
		}
		return a.binding.HandleError(code), nil
	}
	return "", apperrors.ValidationError("command", fmt.Sprintf("unknown command %q", name))
}

// pausedAt reports the player paused at the given time
func pausedAt(a *app, arg string) error {
	seconds, err := secondsArg(arg)
	if err != nil {
		return apperrors.ValidationError("time", err.Error())
	}
	a.player.ReportPosition(seconds)
	a.binding.HandleStateChange(playback.StatePaused)
	return nil
}

package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FFmpeg normalizes Telegram voice notes (ogg/opus) into the fixed target the
// transcription provider expects: 44.1kHz stereo MP3.
type FFmpeg struct {
	cmd string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{cmd: "ffmpeg"}
}

func (f *FFmpeg) Convert(ctx context.Context, src, dst string) error {
	cmdPath, err := exec.LookPath(f.cmd)
	if err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}

	cmd := exec.CommandContext(ctx, cmdPath, convertArgs(src, dst)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion of %s failed: %w: %s", src, err, lastLine(stderr.String()))
	}
	return nil
}

func convertArgs(src, dst string) []string {
	args := []string{"-y"}

	// Telegram serves voice notes as .oga; force the demuxer so ffmpeg does
	// not guess from the uncommon extension.
	ext := strings.ToLower(strings.TrimPrefix(extOf(src), "."))
	if ext == "ogg" || ext == "oga" {
		args = append(args, "-f", "ogg")
	}
	args = append(args, "-i", src)

	args = append(args,
		"-acodec", "libmp3lame",
		"-b:a", "64k",
		"-ar", "44100",
		"-ac", "2",
		dst,
	)
	return args
}

func extOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

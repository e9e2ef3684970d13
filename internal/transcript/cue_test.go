package transcript_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"scrivener/internal/transcript"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:05.520 --> 00:00:08.160
welcome to the <c>show</c>

00:00:08.160 --> 00:00:11.040
welcome to the show
today we talk about go

2
00:00:11.040 --> 00:00:14.500
today we talk about go
concurrency patterns
`

func TestParseCuesDeduplicates(t *testing.T) {
	cues := transcript.ParseCues(sampleVTT)
	want := []string{"welcome to the show", "today we talk about go", "concurrency patterns"}
	if len(cues) != len(want) {
		t.Fatalf("got %d cues, want %d: %+v", len(cues), len(want), cues)
	}
	for i, text := range want {
		if cues[i].Text != text {
			t.Fatalf("cue %d = %q, want %q", i, cues[i].Text, text)
		}
	}
	if cues[0].Start != 5*time.Second {
		t.Fatalf("first cue start = %v", cues[0].Start)
	}
	if cues[2].Start != 11*time.Second {
		t.Fatalf("third cue start = %v", cues[2].Start)
	}
}

func TestParseCuesEmptyInput(t *testing.T) {
	if cues := transcript.ParseCues(""); len(cues) != 0 {
		t.Fatalf("expected empty sequence, got %+v", cues)
	}
}

func TestParseCuesContentBeforeTimingLine(t *testing.T) {
	cues := transcript.ParseCues("orphan line\n00:00:09.000 --> 00:00:10.000\ntimed line\n")
	if len(cues) != 2 {
		t.Fatalf("got %d cues", len(cues))
	}
	if cues[0].Start != 0 {
		t.Fatalf("orphan cue start = %v, want 0", cues[0].Start)
	}
	if got := transcript.FormatTimestamp(cues[0].Start); got != "[00:00]" {
		t.Fatalf("sentinel timestamp = %q", got)
	}
}

func TestParseCuesDiscardsTagOnlyLines(t *testing.T) {
	cues := transcript.ParseCues("00:00:01.000 --> 00:00:02.000\n<c.colorE5E5E5></c>\n   <i>  </i>\nreal text\n")
	if len(cues) != 1 || cues[0].Text != "real text" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseCuesDedupIgnoresTimestamps(t *testing.T) {
	raw := "00:00:01.000 --> 00:00:02.000\nsame words\n00:10:00.000 --> 00:10:02.000\nsame words\n"
	cues := transcript.ParseCues(raw)
	if len(cues) != 1 {
		t.Fatalf("duplicate text survived: %+v", cues)
	}
	if cues[0].Start != time.Second {
		t.Fatalf("kept the wrong occurrence: %+v", cues[0])
	}
}

func TestParseCuesShortTimingVariant(t *testing.T) {
	cues := transcript.ParseCues("05:30.250 --> 05:33.000\nshort form timing\n")
	if len(cues) != 1 {
		t.Fatalf("got %d cues", len(cues))
	}
	if cues[0].Start != 5*time.Minute+30*time.Second {
		t.Fatalf("start = %v", cues[0].Start)
	}
}

func TestParseCuesTruncatesFractionalSeconds(t *testing.T) {
	cues := transcript.ParseCues("00:00:07.999 --> 00:00:09.000\nalmost eight\n")
	if cues[0].Start != 7*time.Second {
		t.Fatalf("start = %v, want 7s", cues[0].Start)
	}
}

func TestParseCuesIdempotent(t *testing.T) {
	first := transcript.ParseCues(sampleVTT)

	var rebuilt strings.Builder
	for _, cue := range first {
		total := int(cue.Start / time.Second)
		fmt.Fprintf(&rebuilt, "%02d:%02d:%02d.000 --> %02d:%02d:%02d.999\n%s\n\n",
			total/3600, (total%3600)/60, total%60,
			total/3600, (total%3600)/60, total%60,
			cue.Text)
	}

	second := transcript.ParseCues(rebuilt.String())
	if len(second) != len(first) {
		t.Fatalf("reparse changed length: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cue %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}

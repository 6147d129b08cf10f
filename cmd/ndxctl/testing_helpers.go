package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/ndxkit/internal/testutil"
)

// fixture holds the offsets of the records written by writeFixture.
type fixture struct {
	dir    string
	first  uint32 // 2x1 record in section 6
	second uint32 // 1x1 record in section 6
	empty  uint32 // record without payload in section 7
}

// writeFixture writes a drak24.ndx / drak24.dat pair into a temp dir and
// points --input-dir at it.
//
// Section 6 holds two images, section 7 one record without payload, sections 30
// and 31 one image each and the excluded section 66 one image. OAN1 resolves
// to 31 and DK64 to 30.
func writeFixture(t *testing.T) fixture {
	t.Helper()
	resetFlags()

	b := testutil.NewBuilder(68)
	red := testutil.Pixel{0x00, 0xFF, 0x00}
	first := b.AddRecord(testutil.Record{HasHeader: true, Width: 2, Height: 1, Pixels: []testutil.Pixel{red}})
	second := b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1})
	// A stored length equal to the header size leaves no payload.
	empty := b.AddRecord(testutil.Record{HasHeader: true, Width: 2, Height: 2, StoredLength: 14})

	b.SetSection(6, first, second).
		SetSection(7, empty).
		SetSection(30, first).
		SetSection(31, second).
		SetSection(66, first)
	b.AddTag("OAN1", 31).AddTag("DK64", 30)

	dir := t.TempDir()
	b.WriteFiles(t, dir, "drak24")
	inputDir = dir
	return fixture{dir: dir, first: first, second: second, empty: empty}
}

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	assetType, inputDir, catalogPath = "drak24", ".", ""

	extractOutputDir, extractSections, extractFormat = "images", "", "png"
	extractScale, extractWorkers = 1, 0
	extractManifest, extractFailOnError = false, false

	recordNoHeader, recordWidth, recordHeight = false, 0, 0
	recordSection, recordOut, recordScale = "", "", 1
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := buf.ReadFrom(r)
		done <- err
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	if err := <-done; err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}

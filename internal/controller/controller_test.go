package controller

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openra/ra-launcher/internal/bridge"
	"github.com/openra/ra-launcher/internal/catalog"
	"github.com/openra/ra-launcher/internal/download"
	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

const waitTimeout = 5 * time.Second

type fakeLocator struct {
	rt    model.RuntimeInfo
	calls int
}

func (f *fakeLocator) Detect() model.RuntimeInfo {
	f.calls++
	return f.rt
}

type fakeStarter struct {
	mu       sync.Mutex
	commands []launch.Command
	err      error
}

func (f *fakeStarter) Start(cmd launch.Command) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.commands = append(f.commands, cmd)
	return 4242, nil
}

func (f *fakeStarter) Commands() []launch.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]launch.Command(nil), f.commands...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, _ string) {
	n.mu.Lock()
	n.titles = append(n.titles, title)
	n.mu.Unlock()
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

var testMods = catalog.StaticSource{
	"ra":     {Title: "Red Alert", Version: "release-1", Requires: "common"},
	"cnc":    {Title: "Tiberian Dawn", Version: "release-1", Requires: "common"},
	"common": {Title: "Common", Standalone: true},
	"orphan": {Title: "Orphan", Requires: "gone"},
}

type fixture struct {
	ctrl     *Controller
	locator  *fakeLocator
	starter  *fakeStarter
	notifier *recordingNotifier
	bridge   *bridge.Recorder
	registry *download.Registry
	gameDir  string
	source   catalog.Source
}

func newFixture(t *testing.T, rt model.RuntimeInfo) *fixture {
	t.Helper()
	f := &fixture{
		locator:  &fakeLocator{rt: rt},
		starter:  &fakeStarter{},
		notifier: &recordingNotifier{},
		bridge:   bridge.NewRecorder(),
		gameDir:  t.TempDir(),
		source:   testMods,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.registry = download.NewRegistry(download.Options{
		Directory: t.TempDir(),
		Bridge:    f.bridge,
		Logger:    logger,
	})

	ctrl, err := New(Options{
		Locator:   f.locator,
		NewSource: func(model.RuntimeInfo) catalog.Source { return f.source },
		Downloads: f.registry,
		Starter:   f.starter,
		Notifier:  f.notifier,
		Launch:    launch.Options{GameDir: f.gameDir},
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { ctrl.Close() })
	f.ctrl = ctrl
	return f
}

func presentRuntime() model.RuntimeInfo {
	return model.RuntimeInfo{Present: true, Path: "/usr/bin/mono"}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("Expected error for missing collaborators")
	}
}

func TestInit_LoadsCatalog(t *testing.T) {
	f := newFixture(t, presentRuntime())

	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if len(f.ctrl.Mods()) != len(testMods) {
		t.Errorf("Expected %d mods, got %d", len(testMods), len(f.ctrl.Mods()))
	}
	if title := f.ctrl.Metadata(catalog.MetaTitle, "ra"); title != "Red Alert" {
		t.Errorf("Expected title Red Alert, got %q", title)
	}
	if children := f.ctrl.Tree().ChildIDs(catalog.ModNodeID("common")); len(children) != 2 {
		t.Errorf("Expected 2 mods nested under common, got %v", children)
	}
}

func TestInit_NoRuntime(t *testing.T) {
	f := newFixture(t, model.RuntimeInfo{})

	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init should not fail without a runtime: %v", err)
	}
	if rt := f.ctrl.Runtime(); rt.Present || rt.Path != "" {
		t.Errorf("Expected absent runtime, got %+v", rt)
	}
	if len(f.ctrl.Mods()) != 0 {
		t.Errorf("Expected no mods without a runtime, got %d", len(f.ctrl.Mods()))
	}
}

func TestLaunchMod_NoRuntimeNeverSpawns(t *testing.T) {
	f := newFixture(t, model.RuntimeInfo{})
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	err := f.ctrl.LaunchMod("ra")
	if !errors.Is(err, ErrRuntimeNotFound) {
		t.Fatalf("Expected ErrRuntimeNotFound, got %v", err)
	}
	if cmds := f.starter.Commands(); len(cmds) != 0 {
		t.Errorf("Expected no process to be spawned, got %v", cmds)
	}
	titles := f.notifier.Titles()
	if len(titles) != 1 || titles[0] != TitleRuntimeMissing {
		t.Errorf("Expected runtime missing notification, got %v", titles)
	}
}

func TestLaunchMod(t *testing.T) {
	f := newFixture(t, presentRuntime())
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	f.ctrl.SetRenderer("cg")

	if err := f.ctrl.LaunchMod("ra"); err != nil {
		t.Fatalf("LaunchMod failed: %v", err)
	}

	cmds := f.starter.Commands()
	if len(cmds) != 1 {
		t.Fatalf("Expected 1 spawned process, got %d", len(cmds))
	}
	cmd := cmds[0]
	if cmd.Program != "/usr/bin/mono" {
		t.Errorf("Expected program /usr/bin/mono, got %s", cmd.Program)
	}
	line := cmd.String()
	for _, want := range []string{
		filepath.Join(f.gameDir, launch.GameExecutable),
		launch.ModsArgPrefix + "ra,common",
		launch.RendererArgPrefix + launch.RendererCg,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected command %q to contain %q", line, want)
		}
	}
}

func TestLaunchMod_Failures(t *testing.T) {
	tests := []struct {
		name       string
		mod        string
		startErr   error
		wantUnwrap error
		wantLaunch bool
	}{
		{"unknown mod", "ts", nil, ErrUnknownMod, false},
		{"missing dependency", "orphan", nil, catalog.ErrModNotFound, true},
		{"spawn error", "cnc", os.ErrPermission, os.ErrPermission, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, presentRuntime())
			f.starter.err = tt.startErr
			if err := f.ctrl.Init(context.Background()); err != nil {
				t.Fatalf("Init failed: %v", err)
			}

			err := f.ctrl.LaunchMod(tt.mod)
			if !errors.Is(err, tt.wantUnwrap) {
				t.Fatalf("Expected error wrapping %v, got %v", tt.wantUnwrap, err)
			}
			var launchErr *launch.LaunchError
			if errors.As(err, &launchErr) != tt.wantLaunch {
				t.Errorf("Expected LaunchError=%v, got %T", tt.wantLaunch, err)
			}
			if tt.wantLaunch {
				titles := f.notifier.Titles()
				if len(titles) != 1 || titles[0] != TitleLaunchFailed {
					t.Errorf("Expected launch failed notification, got %v", titles)
				}
			}
		})
	}
}

func TestCheckRuntime_Idempotent(t *testing.T) {
	f := newFixture(t, presentRuntime())

	first := f.ctrl.CheckRuntime()
	second := f.ctrl.CheckRuntime()
	if first != second {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if f.locator.calls != 2 {
		t.Errorf("Expected 2 detections, got %d", f.locator.calls)
	}
}

func TestPopulateModInfo_Idempotent(t *testing.T) {
	f := newFixture(t, presentRuntime())
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	first := f.ctrl.PopulateModInfo().Descriptors()
	second := f.ctrl.PopulateModInfo().Descriptors()
	if len(first) != len(second) {
		t.Fatalf("Expected same descriptors, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Descriptor %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestExistsInMod(t *testing.T) {
	f := newFixture(t, presentRuntime())
	dir := filepath.Join(f.gameDir, platform.ModsDirName, "ra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create mod dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "allies.mix"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if !f.ctrl.ExistsInMod("allies.mix", "ra") {
		t.Error("Expected allies.mix to exist in ra")
	}
	if f.ctrl.ExistsInMod("allies.mix", "cnc") {
		t.Error("Expected allies.mix to not exist in cnc")
	}
}

func TestRegisterDownload_DuplicateWhileActive(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	f := newFixture(t, presentRuntime())

	if !f.ctrl.RegisterDownload("a", server.URL+"/y", "/tmp/y") {
		t.Fatal("Expected first registration to succeed")
	}
	if f.ctrl.RegisterDownload("a", server.URL+"/z", "/tmp/z") {
		t.Error("Expected second registration to be rejected while active")
	}
}

func TestFetchURL_ConcurrentCallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload:" + r.URL.Path))
	}))
	t.Cleanup(server.Close)

	f := newFixture(t, presentRuntime())
	f.ctrl.FetchURL(server.URL+"/info.json", "cb1")
	f.ctrl.FetchURL(server.URL+"/other.json", "cb2")

	f.bridge.WaitFor(2, waitTimeout)
	// Give a duplicate delivery a chance to show up
	time.Sleep(50 * time.Millisecond)

	counts := map[string]int{}
	for _, ev := range f.bridge.Events() {
		counts[ev.Callback]++
		if ev.Kind != bridge.EventFetchCompleted {
			t.Errorf("Expected fetch completed for %s, got %v", ev.Callback, ev.Kind)
		}
	}
	if counts["cb1"] != 1 || counts["cb2"] != 1 {
		t.Errorf("Expected each callback exactly once, got %v", counts)
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry: %v", err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return archive.Bytes()
}

func TestExtractDownload(t *testing.T) {
	archive := buildZip(t, map[string]string{"maps/island.oramap": "map"})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	t.Cleanup(server.Close)

	f := newFixture(t, presentRuntime())
	if !f.ctrl.RegisterDownload("maps", server.URL+"/maps.zip", "maps.zip") {
		t.Fatal("Expected registration to succeed")
	}
	f.bridge.WaitFor(1, waitTimeout)

	target, err := f.ctrl.ExtractDownload("maps", "../content", "ra")
	if err != nil {
		t.Fatalf("ExtractDownload failed: %v", err)
	}
	want := filepath.Join(f.gameDir, platform.ModsDirName, "ra", "content")
	if target != want {
		t.Errorf("Expected target %s, got %s", want, target)
	}
	if !f.ctrl.ExistsInMod("content/maps/island.oramap", "ra") {
		t.Error("Expected extracted map inside the mod directory")
	}
}

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.zip")
	if err := os.WriteFile(path, buildZip(t, files), 0600); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}
	return path
}

func TestInstallMod(t *testing.T) {
	f := newFixture(t, presentRuntime())
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, ok := f.ctrl.Mod("d2k"); ok {
		t.Fatal("Expected d2k to be unknown before install")
	}

	archive := writeArchive(t, map[string]string{"d2k/mod.yaml": "Metadata:"})
	f.source = catalog.StaticSource{
		"common": {Title: "Common", Standalone: true},
		"d2k":    {Title: "Dune 2000", Requires: "common"},
	}

	target, err := f.ctrl.InstallMod(context.Background(), archive)
	if err != nil {
		t.Fatalf("InstallMod failed: %v", err)
	}
	if want := filepath.Join(f.gameDir, platform.ModsDirName); target != want {
		t.Errorf("Expected target %s, got %s", want, target)
	}
	if !f.ctrl.ExistsInMod("mod.yaml", "d2k") {
		t.Error("Expected mod.yaml inside the installed mod")
	}
	if _, ok := f.ctrl.Mod("d2k"); !ok {
		t.Error("Expected the catalog to be reloaded after install")
	}
	if _, ok := f.ctrl.Tree().ModNode("d2k"); !ok {
		t.Error("Expected the installed mod in the sidebar tree")
	}
}

func TestInstallMod_NoRuntime(t *testing.T) {
	f := newFixture(t, model.RuntimeInfo{})
	f.ctrl.Init(context.Background())

	archive := writeArchive(t, map[string]string{"d2k/mod.yaml": "Metadata:"})
	if _, err := f.ctrl.InstallMod(context.Background(), archive); err != nil {
		t.Fatalf("InstallMod failed: %v", err)
	}
	if !f.ctrl.ExistsInMod("mod.yaml", "d2k") {
		t.Error("Expected files to be installed without a runtime")
	}
	if len(f.ctrl.Mods()) != 0 {
		t.Errorf("Expected no mods listed without a runtime, got %v", f.ctrl.Mods())
	}
}

func TestInstallMod_Errors(t *testing.T) {
	f := newFixture(t, presentRuntime())

	if _, err := f.ctrl.InstallMod(context.Background(), filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Error("Expected error for a missing archive")
	}

	archive := writeArchive(t, map[string]string{"../../escape.txt": "x"})
	if _, err := f.ctrl.InstallMod(context.Background(), archive); err == nil {
		t.Error("Expected error for an archive escaping the mods directory")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(f.gameDir), "escape.txt")); !os.IsNotExist(err) {
		t.Error("Expected no file written outside the mods directory")
	}
}

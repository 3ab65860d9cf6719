// Package monitoring serves the state of a running traffic player over HTTP
// so that long sweeps can be watched, paused, and profiled.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/dramsweep/hooking"
	"github.com/sarchlab/dramsweep/monitoring/web"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
	"github.com/sarchlab/dramsweep/trafficgen/player"
)

// Player is what the monitor needs to know about a traffic player.
type Player interface {
	hooking.Hookable

	Name() string
	Schedule() trafficgen.Schedule
	Progress() player.Progress
}

// Monitor can turn a run into a server and allows external monitoring and
// controlling of the run.
type Monitor struct {
	engine          timing.Engine
	player          Player
	portNumber      int
	openBrowser     bool
	profileDuration time.Duration

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open its page in a browser once the server
// starts.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// WithProfileDuration sets how long a CPU profile is collected for.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterEngine registers the engine that drives the player.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterPlayer registers a started player and tracks its phases on a
// progress bar.
func (m *Monitor) RegisterPlayer(p Player) {
	m.player = p

	bar := m.CreateProgressBar(p.Name(), uint64(len(p.Schedule().Phases())))
	p.AcceptHook(&phaseProgressHook{bar: bar})
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/player", m.playerProgress)
	r.HandleFunc("/api/schedule", m.listDirectives)
	r.HandleFunc("/api/directive/{index:[0-9]+}", m.directiveDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring traffic with %s\n", url)

	go func() {
		err := http.Serve(listener, m.router())
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	if !m.engineOr503(w) {
		return
	}

	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	if !m.engineOr503(w) {
		return
	}

	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	if !m.engineOr503(w) {
		return
	}

	now := m.engine.Now()
	fmt.Fprintf(w, "{\"now\":%d,\"seconds\":%.12f}", now, float64(now.Seconds()))
}

func (m *Monitor) engineOr503(w http.ResponseWriter) bool {
	if m.engine != nil {
		return true
	}

	http.Error(w, "No engine registered", http.StatusServiceUnavailable)

	return false
}

func (m *Monitor) playerOr503(w http.ResponseWriter) bool {
	if m.player != nil {
		return true
	}

	http.Error(w, "No player registered", http.StatusServiceUnavailable)

	return false
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bytes, err := json.Marshal(m.progressBars)
	m.progressBarsLock.Unlock()
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type playerRsp struct {
	Name           string `json:"name"`
	DirectiveIndex int    `json:"directive_index"`
	NumDirectives  int    `json:"num_directives"`
	PacketsIssued  uint64 `json:"packets_issued"`
	BytesIssued    uint64 `json:"bytes_issued"`
	PhasePackets   uint64 `json:"phase_packets"`
	Stopped        bool   `json:"stopped"`
	ExitCode       int    `json:"exit_code"`
}

func (m *Monitor) playerProgress(w http.ResponseWriter, _ *http.Request) {
	if !m.playerOr503(w) {
		return
	}

	p := m.player.Progress()
	rsp := playerRsp{
		Name:           m.player.Name(),
		DirectiveIndex: p.DirectiveIndex,
		NumDirectives:  p.NumDirectives,
		PacketsIssued:  p.PacketsIssued,
		BytesIssued:    p.BytesIssued,
		PhasePackets:   p.PhasePackets,
		Stopped:        p.Stopped,
		ExitCode:       p.ExitCode,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type directiveRsp struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Mode        string `json:"mode,omitempty"`
	Duration    uint64 `json:"duration,omitempty"`
	NumSeqPkts  uint64 `json:"num_seq_pkts,omitempty"`
	BanksUtil   int    `json:"banks_util,omitempty"`
	ReadPercent int    `json:"read_percent"`
	ExitCode    int    `json:"exit_code"`
}

func (m *Monitor) listDirectives(w http.ResponseWriter, _ *http.Request) {
	if !m.playerOr503(w) {
		return
	}

	directives := m.player.Schedule().Directives()
	rsp := make([]directiveRsp, 0, len(directives))

	for i, d := range directives {
		switch d := d.(type) {
		case trafficgen.GenerateDirective:
			rsp = append(rsp, directiveRsp{
				Index:       i,
				Kind:        "generate",
				Mode:        d.Mode.String(),
				Duration:    uint64(d.Duration),
				NumSeqPkts:  d.NumSeqPackets,
				BanksUtil:   d.NumBanksUtil,
				ReadPercent: d.ReadPercent,
			})
		case trafficgen.StopDirective:
			rsp = append(rsp, directiveRsp{
				Index:    i,
				Kind:     "stop",
				ExitCode: d.ExitCode,
			})
		}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) directiveDetails(w http.ResponseWriter, r *http.Request) {
	if !m.playerOr503(w) {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	dieOnErr(err)

	s := m.player.Schedule()
	if index >= s.Len() {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Directive not found"))
		dieOnErr(err)

		return
	}

	var root any

	switch d := s.At(index).(type) {
	case trafficgen.GenerateDirective:
		root = &d
	case trafficgen.StopDirective:
		root = &d
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(root)
	serializer.SetMaxDepth(2)
	err = serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	process, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}

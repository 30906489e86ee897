package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/commonGo"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/api"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/clock"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/engine"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/feeder"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/poller"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/registrar"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/replay"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/session"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/sessionclient"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/storage"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/store"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/surfaces"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/termview"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/tracker"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/widgets"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
)

var log = logger.GetOrCreate("factory")

const eventBufferSize = 256

// ArgsComponentsHandler defines the components handler arguments
type ArgsComponentsHandler struct {
	ServiceKeyApi string
	SessionKeyApi string
	AuthUsername  string
	AuthPassword  string
	WithTerminal  bool
	Config        config.Config
}

type componentsHandler struct {
	engine        Engine
	server        Server
	terminal      TerminalView
	feeder        Feeder
	replayer      Closer
	recorder      Closer
	gatherer      prometheus.Gatherer
	queryInterval time.Duration

	mutCancel  sync.Mutex
	cancel     func()
	feederDone <-chan struct{}
}

// NewComponentsHandler creates and wires every dashboard component
func NewComponentsHandler(args ArgsComponentsHandler) (*componentsHandler, error) {
	cfg := args.Config
	timeProvider := time.Now

	registry := prometheus.NewRegistry()
	err := registry.Register(prometheus.NewGoCollector())
	if err != nil {
		return nil, err
	}

	sess := session.NewSessionContext()
	updates := bus.NewUpdateBus()
	broadcaster := surfaces.NewBroadcaster(eventBufferSize)
	renderers, err := surfaces.NewFanout(broadcaster)
	if err != nil {
		return nil, err
	}

	sampleClock, err := clock.NewSampleClock(time.Duration(cfg.SampleIntervalInMillis)*time.Millisecond, timeProvider)
	if err != nil {
		return nil, err
	}

	widgetCache, err := widgets.NewWidgetCache(widgets.ArgsWidgetCache{
		Publisher: updates,
		Session:   sess,
		Renderer:  renderers,
	})
	if err != nil {
		return nil, err
	}

	trackers, err := tracker.NewRegistry(tracker.ArgsRegistry{
		Targets:      cfg.GraphTargets,
		Capacity:     cfg.WindowCapacity,
		Updates:      updates,
		Clock:        sampleClock,
		Renderer:     renderers,
		TimeProvider: timeProvider,
	})
	if err != nil {
		return nil, err
	}

	client := sessionclient.NewHTTPSessionClient(
		cfg.SessionEndpoint,
		args.SessionKeyApi,
		time.Duration(cfg.SessionTimeoutInSeconds)*time.Second,
	)
	customMetrics, err := registrar.NewCustomMetricRegistrar(client)
	if err != nil {
		return nil, err
	}

	engineArgs := engine.ArgsTelemetryEngine{
		Session:         sess,
		Store:           store.NewMetricStore(),
		Widgets:         widgetCache,
		Trackers:        trackers,
		Clock:           sampleClock,
		Registrar:       customMetrics,
		Commands:        client,
		SessionRenderer: broadcaster,
		Registerer:      registry,
		TimeProvider:    timeProvider,
	}

	ch := &componentsHandler{
		gatherer:      registry,
		queryInterval: time.Duration(cfg.QueryIntervalInSeconds) * time.Second,
	}

	serverArgs := api.ArgsWebServer{
		ServiceKeyApi:  args.ServiceKeyApi,
		AuthUsername:   args.AuthUsername,
		AuthPassword:   args.AuthPassword,
		ListenAddress:  cfg.ListenAddress,
		StaticDir:      cfg.StaticDir,
		Events:         broadcaster,
		Gatherer:       registry,
		GeneralHandler: api.CORSMiddleware,
	}

	var recordings replay.ReadingSource
	if cfg.Recording.Enabled {
		sqlStorage, errStorage := storage.NewSQLiteStorage(cfg.Recording.DBPath, cfg.Recording.RetentionSeconds)
		if errStorage != nil {
			return nil, errStorage
		}
		log.Info("recording readings", "path", cfg.Recording.DBPath, "retention in seconds", cfg.Recording.RetentionSeconds)

		engineArgs.Recorder = sqlStorage
		serverArgs.History = sqlStorage
		recordings = sqlStorage
		ch.recorder = sqlStorage
	}

	eng, err := engine.NewTelemetryEngine(engineArgs)
	if err != nil {
		ch.closeRecorder()
		return nil, err
	}
	ch.engine = eng
	serverArgs.Dashboard = eng

	if recordings != nil {
		replayer, errReplay := replay.NewReplayer(recordings, eng)
		if errReplay != nil {
			ch.closeRecorder()
			return nil, errReplay
		}
		serverArgs.Replayer = replayer
		ch.replayer = replayer
	}

	readingFeeder, err := feeder.NewReadingFeeder(cfg.Sources, poller.NewHTTPPoller(ch.queryInterval), eng)
	if err != nil {
		ch.closeRecorder()
		return nil, err
	}
	ch.feeder = readingFeeder

	if args.WithTerminal {
		view, errView := termview.NewTerminalView(cfg.GraphTargets, eng)
		if errView != nil {
			ch.closeRecorder()
			return nil, errView
		}
		err = renderers.Attach(view)
		if err != nil {
			ch.closeRecorder()
			return nil, err
		}
		ch.terminal = view
	}

	ch.server, err = api.NewServer(serverArgs)
	if err != nil {
		ch.closeRecorder()
		return nil, err
	}

	return ch, nil
}

func (ch *componentsHandler) closeRecorder() {
	if !check.IfNil(ch.recorder) {
		_ = ch.recorder.Close()
	}
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// GetTerminalView returns the terminal view or nil if the dashboard runs headless
func (ch *componentsHandler) GetTerminalView() TerminalView {
	return ch.terminal
}

// GetGatherer returns the registry holding the dashboard collectors
func (ch *componentsHandler) GetGatherer() prometheus.Gatherer {
	return ch.gatherer
}

// Start starts the inner components
func (ch *componentsHandler) Start() error {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return nil
	}

	err := ch.server.Start()
	if err != nil {
		return err
	}
	ch.engine.Start()

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())
	ch.feederDone = commonGo.CronJobStarter(ctx, ch.feeder.Process, ch.queryInterval)

	return nil
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	if ch.cancel != nil {
		ch.cancel()
		<-ch.feederDone
		ch.cancel = nil
	}
	ch.mutCancel.Unlock()

	err := ch.server.Close()
	if err != nil {
		log.Warn("failed to close the server", "error", err)
	}
	if !check.IfNil(ch.replayer) {
		_ = ch.replayer.Close()
	}
	err = ch.engine.Close()
	if err != nil {
		log.Warn("failed to close the engine", "error", err)
	}
	ch.closeRecorder()
}

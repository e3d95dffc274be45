package remote

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/engine"
	"github.com/vidsel-cli/vidsel/log"
)

const (
	objectPath      = "/org/mpris/MediaPlayer2"
	rootInterface   = "org.mpris.MediaPlayer2"
	playerIface     = "org.mpris.MediaPlayer2.Player"
	busNamePrefix   = "org.mpris.MediaPlayer2."
	trackPathPrefix = "/org/vidsel/track/"
)

// MprisPlayer serves the MPRIS2 player interface on the session bus.
type MprisPlayer struct {
	conn   *dbus.Conn
	player ControlledPlayer
	props  *prop.Properties
	quit   func()
	logger *logrus.Entry
}

// root implements org.mpris.MediaPlayer2.
type root struct {
	quit func()
}

func (r root) Raise() *dbus.Error {
	return nil
}

func (r root) Quit() *dbus.Error {
	if r.quit != nil {
		r.quit()
	}
	return nil
}

// RegisterMprisPlayer exports player on the session bus. quit is called
// when a client asks the application to exit.
func RegisterMprisPlayer(player ControlledPlayer, quit func()) (*MprisPlayer, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}

	m := &MprisPlayer{
		conn:   conn,
		player: player,
		quit:   quit,
		logger: log.WithFields(logrus.Fields{"remote": "mpris"}),
	}

	if err := m.export(); err != nil {
		conn.Close()
		return nil, err
	}

	return m, nil
}

func (m *MprisPlayer) export() error {
	if err := m.conn.Export(m, objectPath, playerIface); err != nil {
		return fmt.Errorf("export player: %w", err)
	}
	if err := m.conn.Export(root{quit: m.quit}, objectPath, rootInterface); err != nil {
		return fmt.Errorf("export root: %w", err)
	}

	playerProps := map[string]*prop.Prop{
		"CanControl":     {Value: true, Emit: prop.EmitFalse},
		"CanGoNext":      {Value: true, Emit: prop.EmitFalse},
		"CanGoPrevious":  {Value: true, Emit: prop.EmitFalse},
		"CanPause":       {Value: true, Emit: prop.EmitFalse},
		"CanPlay":        {Value: true, Emit: prop.EmitFalse},
		"CanSeek":        {Value: true, Emit: prop.EmitFalse},
		"Rate":           {Value: 1.0, Emit: prop.EmitFalse},
		"MinimumRate":    {Value: 1.0, Emit: prop.EmitFalse},
		"MaximumRate":    {Value: 1.0, Emit: prop.EmitFalse},
		"Metadata":       {Value: metadata(m.player.NowPlaying().OrEmpty()), Emit: prop.EmitTrue},
		"PlaybackStatus": {Value: playbackStatus(engine.WaitingForSelection), Emit: prop.EmitTrue},
		"Position":       {Value: int64(0), Emit: prop.EmitFalse},
	}

	rootProps := map[string]*prop.Prop{
		"CanQuit":             {Value: m.quit != nil, Emit: prop.EmitFalse},
		"CanRaise":            {Value: false, Emit: prop.EmitFalse},
		"HasTrackList":        {Value: false, Emit: prop.EmitFalse},
		"Identity":            {Value: constant.Vidsel, Emit: prop.EmitFalse},
		"SupportedUriSchemes": {Value: []string{"file", "http", "https"}, Emit: prop.EmitFalse},
		"SupportedMimeTypes":  {Value: []string{"video/mp4", "video/quicktime", "video/x-matroska", "video/webm"}, Emit: prop.EmitFalse},
	}

	props, err := prop.Export(m.conn, objectPath, map[string]map[string]*prop.Prop{
		rootInterface: rootProps,
		playerIface:   playerProps,
	})
	if err != nil {
		return fmt.Errorf("export properties: %w", err)
	}
	m.props = props

	node := &introspect.Node{
		Name: objectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       rootInterface,
				Methods:    introspect.Methods(root{}),
				Properties: props.Introspection(rootInterface),
			},
			{
				Name:       playerIface,
				Methods:    introspect.Methods(m),
				Properties: props.Introspection(playerIface),
			},
		},
	}
	if err := m.conn.Export(introspect.NewIntrospectable(node), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}

	reply, err := m.conn.RequestName(busNamePrefix+constant.Vidsel, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already owned")
	}

	return nil
}

// Close releases the bus connection.
func (m *MprisPlayer) Close() {
	if err := m.conn.Close(); err != nil {
		m.logger.Warnf("close: %v", err)
	}
}

// OnEvent mirrors engine events onto the exported properties.
func (m *MprisPlayer) OnEvent(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.StateEvent:
		m.props.SetMust(playerIface, "PlaybackStatus", playbackStatus(ev.State))
		if ev.State == engine.Playing {
			m.props.SetMust(playerIface, "Metadata", metadata(m.player.NowPlaying().OrEmpty()))
		}
	case engine.DurationEvent:
		m.props.SetMust(playerIface, "Metadata", metadata(m.player.NowPlaying().OrEmpty()))
	case engine.TimeEvent:
		m.props.SetMust(playerIface, "Position", toMicros(ev.Elapsed))
	}
}

func (m *MprisPlayer) call(name string, f func() error) *dbus.Error {
	if err := f(); err != nil {
		m.logger.WithField("method", name).Warn(err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (m *MprisPlayer) Next() *dbus.Error      { return m.call("Next", m.player.Next) }
func (m *MprisPlayer) Previous() *dbus.Error  { return m.call("Previous", m.player.Previous) }
func (m *MprisPlayer) Pause() *dbus.Error     { return m.call("Pause", m.player.Pause) }
func (m *MprisPlayer) PlayPause() *dbus.Error { return m.call("PlayPause", m.player.PlayPause) }
func (m *MprisPlayer) Stop() *dbus.Error      { return m.call("Stop", m.player.Stop) }
func (m *MprisPlayer) Play() *dbus.Error      { return m.call("Play", m.player.Play) }

// Seek moves by offset microseconds.
func (m *MprisPlayer) Seek(offset int64) *dbus.Error {
	return m.call("Seek", func() error {
		if err := m.player.SeekBy(fromMicros(offset)); err != nil {
			return err
		}
		return m.emitSeeked()
	})
}

// SetPosition is ignored unless trackID names the current item.
func (m *MprisPlayer) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	now, ok := m.player.NowPlaying().Get()
	if !ok || trackID != trackPath(now) || position < 0 {
		return nil
	}
	if now.Length > 0 && fromMicros(position) > now.Length {
		return nil
	}

	return m.call("SetPosition", func() error {
		if err := m.player.SetPosition(fromMicros(position)); err != nil {
			return err
		}
		return m.emitSeeked()
	})
}

func (m *MprisPlayer) OpenUri(uri string) *dbus.Error {
	return dbus.MakeFailedError(errors.New("OpenUri is not supported"))
}

func (m *MprisPlayer) emitSeeked() error {
	pos := toMicros(m.player.Position())
	m.props.SetMust(playerIface, "Position", pos)
	return m.conn.Emit(objectPath, playerIface+".Seeked", pos)
}

func playbackStatus(s engine.State) string {
	switch s {
	case engine.Playing, engine.Buffering, engine.WaitingForConnection:
		return "Playing"
	case engine.Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

func metadata(now NowPlaying) map[string]dbus.Variant {
	if now.Item.IsZero() {
		return map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")),
		}
	}

	return map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackPath(now)),
		"mpris:length":  dbus.MakeVariant(toMicros(now.Length)),
		"xesam:title":   dbus.MakeVariant(now.Item.String()),
		"xesam:url":     dbus.MakeVariant(now.Item.Location),
	}
}

// trackPath derives a stable object path from the item location.
func trackPath(now NowPlaying) dbus.ObjectPath {
	sum := sha1.Sum([]byte(now.Item.Location))
	return dbus.ObjectPath(trackPathPrefix + hex.EncodeToString(sum[:8]))
}

func toMicros(d time.Duration) int64 {
	return d.Microseconds()
}

func fromMicros(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

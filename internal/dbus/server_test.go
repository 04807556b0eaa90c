package dbus

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	shown     []ShowRequest
	err       error
	dismissed []string
	list      []TooltipInfo
}

func (f *fakeHandler) Show(req ShowRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.shown = append(f.shown, req)
	return "tip-1", nil
}

func (f *fakeHandler) Dismiss(id string) bool {
	f.dismissed = append(f.dismissed, id)
	return id == "tip-1"
}

func (f *fakeHandler) List() []TooltipInfo { return f.list }

func TestTooltipServer_ShowAt(t *testing.T) {
	h := &fakeHandler{}
	s := NewTooltipServer(h, nil)

	id, dbusErr := s.ShowAt(40, 12, "Hello", map[string]dbus.Variant{
		OptionColor: dbus.MakeVariant("#1e66f5"),
	})
	require.Nil(t, dbusErr)
	assert.Equal(t, "tip-1", id)

	require.Len(t, h.shown, 1)
	req := h.shown[0]
	assert.True(t, req.Point)
	assert.Equal(t, 40, req.X)
	assert.Equal(t, 12, req.Y)
	assert.Equal(t, "Hello", req.Text)
	assert.Equal(t, "#1e66f5", req.Options.Color)
	assert.EqualValues(t, -1, req.Options.Timeout)
}

func TestTooltipServer_ShowRect(t *testing.T) {
	tests := []struct {
		name          string
		width, height int32
		opts          map[string]dbus.Variant
		handlerErr    error
		wantErr       bool
	}{
		{name: "valid", width: 100, height: 30},
		{name: "empty rect is allowed", width: 0, height: 0},
		{name: "negative width", width: -1, height: 30, wantErr: true},
		{name: "bad option", width: 10, height: 10, opts: map[string]dbus.Variant{OptionBold: dbus.MakeVariant("no")}, wantErr: true},
		{name: "handler error", width: 10, height: 10, handlerErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHandler{err: tt.handlerErr}
			s := NewTooltipServer(h, nil)

			id, dbusErr := s.ShowRect(5, 6, tt.width, tt.height, "text", tt.opts)
			if tt.wantErr {
				require.NotNil(t, dbusErr)
				assert.Equal(t, errorName, dbusErr.Name)
				assert.Empty(t, id)
				return
			}
			require.Nil(t, dbusErr)
			require.Len(t, h.shown, 1)
			assert.False(t, h.shown[0].Point)
			assert.Equal(t, int(tt.width), h.shown[0].Width)
			assert.Equal(t, int(tt.height), h.shown[0].Height)
		})
	}
}

func TestTooltipServer_DismissAndList(t *testing.T) {
	h := &fakeHandler{}
	s := NewTooltipServer(h, nil)

	found, dbusErr := s.Dismiss("tip-1")
	require.Nil(t, dbusErr)
	assert.True(t, found)

	found, dbusErr = s.Dismiss("nope")
	require.Nil(t, dbusErr)
	assert.False(t, found)
	assert.Equal(t, []string{"tip-1", "nope"}, h.dismissed)

	list, dbusErr := s.List()
	require.Nil(t, dbusErr)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	h.list = []TooltipInfo{{ID: "tip-1", Text: "Hi", X: 1, Y: 2, Created: 10}}
	list, _ = s.List()
	assert.Equal(t, h.list, list)
}

func TestTooltipServer_NoHandler(t *testing.T) {
	s := NewTooltipServer(nil, nil)

	_, dbusErr := s.ShowAt(0, 0, "x", nil)
	assert.NotNil(t, dbusErr)
	_, dbusErr = s.Dismiss("x")
	assert.NotNil(t, dbusErr)
	_, dbusErr = s.List()
	assert.NotNil(t, dbusErr)
}

func TestTooltipServer_ServerInfo(t *testing.T) {
	s := NewTooltipServer(nil, nil)
	s.SetServerInfo(ServerInfo{Name: "anchortipd", Vendor: "anchortip", Version: "1.2.3"})

	name, vendor, version, dbusErr := s.GetServerInformation()
	require.Nil(t, dbusErr)
	assert.Equal(t, "anchortipd", name)
	assert.Equal(t, "anchortip", vendor)
	assert.Equal(t, "1.2.3", version)
}

func TestTooltipServer_EmitWithoutConnection(t *testing.T) {
	s := NewTooltipServer(nil, nil)
	assert.Error(t, s.EmitShown("tip-1"))
	assert.Error(t, s.EmitDismissed("tip-1", CloseReasonExpired))
	assert.NoError(t, s.Stop())
}

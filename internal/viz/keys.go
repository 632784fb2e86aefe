package viz

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Pause   key.Binding
	Reset   key.Binding
	Rewind  key.Binding
	Forward key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Theme   key.Binding
	Record  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Rewind:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rewind")),
		Forward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Record:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "record gif")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Rewind, k.Forward},
		{k.ZoomIn, k.ZoomOut, k.Theme, k.Record},
		{k.Help, k.Quit},
	}
}

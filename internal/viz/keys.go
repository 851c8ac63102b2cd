package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause key.Binding
	Stop      key.Binding
	Faster    key.Binding
	Slower    key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Focus     key.Binding
	Colormap  key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Faster:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		SeekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek back")),
		SeekFwd:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek fwd")),
		Focus:     key.NewBinding(key.WithKeys("tab", "j"), key.WithHelp("tab", "next section")),
		Colormap:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colormap")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Stop, k.Faster, k.Slower, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Faster, k.Slower},
		{k.SeekBack, k.SeekFwd, k.Focus},
		{k.Colormap, k.Theme, k.Help, k.Quit},
	}
}

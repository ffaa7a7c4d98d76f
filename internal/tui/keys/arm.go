package keys

import "github.com/charmbracelet/bubbles/key"

// ArmKeys are the bindings of the arm screen
type ArmKeys struct {
	CommonKeys
	Fire    key.Binding
	Refresh key.Binding
	Clear   key.Binding
}

func NewArmKeys() ArmKeys {
	return ArmKeys{
		CommonKeys: NewCommonKeys(),
		Fire: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "send start"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan ports"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
	}
}

func (k ArmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Fire, k.Help, k.Quit}
}

func (k ArmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fire, k.Refresh, k.Clear},
		{k.Help, k.Quit},
	}
}

package tui

const (
	// MinHeight is the minimum height of the TUI.
	MinHeight = 24
	// HeaderHeight is the height of the header at the top of the TUI.
	HeaderHeight = 2
	// FooterHeight is the height of the footer at the bottom of the TUI.
	FooterHeight = 1
	// MinContentHeight is the minimum height of content between the header
	// and the footer.
	MinContentHeight = MinHeight - HeaderHeight - FooterHeight
	// MinContentWidth is the minimum width of the content.
	MinContentWidth = 80
)

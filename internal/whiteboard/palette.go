package whiteboard

// Palette is the fixed set of member colors, handed out by join order
var Palette = [8]string{
	"#e6194b",
	"#3cb44b",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#42d4f4",
	"#f032e6",
	"#9a6324",
}

// AllocateColor picks the color for a member joining sessionID while occupancy members are
// already present. Colors repeat once a session grows past the palette size.
func AllocateColor(sessionID string, occupancy int) string {
	if occupancy < 0 {
		occupancy = 0
	}
	return Palette[occupancy%len(Palette)]
}

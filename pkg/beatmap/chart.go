package beatmap

// Chart is the metadata of a single difficulty, read from one chart file
// inside a beatmapset folder.
type Chart struct {
	ID            int    `json:"Id"`
	SetID         int    `json:"SetId"`
	Title         string `json:"Title"`
	Artist        string `json:"Artist"`
	Creator       string `json:"Creator"`
	Difficulty    string `json:"Difficulty"`
	AudioFile     string `json:"AudioFile"`
	FormatVersion int    `json:"FormatVersion"`

	// File is the chart file name within the set folder.
	File string `json:"File"`

	// Extra preserves every key/value pair that is not promoted to a
	// field above, so nothing read from the file is lost.
	Extra map[string]string `json:"Extra,omitempty"`
}

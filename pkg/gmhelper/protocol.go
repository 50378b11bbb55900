package gmhelper

// ExportPrefix starts every result line the exporter writes to its side
// channel (stderr). The remainder of the line is a flat JSON object:
//
//	JSON_EXPORT:{"path":"...","width":16,"height":16,"frame_count":4,"tag_name":"idle"}
//
// Lines without the prefix on the same stream are diagnostics.
const ExportPrefix = "JSON_EXPORT:"

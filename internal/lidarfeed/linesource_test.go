package lidarfeed

var (
	_ LineSource = (*ProcessLineSource)(nil)
	_ LineSource = (*SerialLineSource)(nil)
)

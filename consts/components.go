package consts

const (
	COMPONENT_LOGGING    = "logging"
	COMPONENT_PROMETHEUS = "prometheus"
)

// 日志 sink 种类
const (
	SINK_CONSOLE = "console"
	SINK_FILE    = "file"
)

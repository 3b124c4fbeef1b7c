package consts

const (
	ENV_PRODUCTION  = "production"
	ENV_DEVELOPMENT = "development"
	ENV_TEST        = "test"

	// ENV_LOG_ROOT 覆盖日志根目录 (kitlog 命令行未指定 --root 时使用)
	ENV_LOG_ROOT = "KIT_LOG_ROOT"

	DEFAULT_CONFIG_PATH = "config.yaml"
	DEFAULT_LOG_ROOT    = "./"

	// KEY_Logging 配置文件中日志小节的包装 key
	KEY_Logging = "logging"

	KEY_TraceID    = "trace_id"
	KEY_SpanID     = "span_id"
	KEY_TraceFlags = "trace_flags"
)

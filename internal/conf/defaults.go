// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the qlp configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("threads", 0)

	v.SetDefault("main.log.level", "info")
	v.SetDefault("main.log.timezone", "Local")
	v.SetDefault("main.log.path", "")

	v.SetDefault("pointing.band", "43GHz")
	v.SetDefault("pointing.errorsentinel", "ERR")

	v.SetDefault("output.table.enabled", true)
	v.SetDefault("output.table.path", "table")

	v.SetDefault("output.product.enabled", false)
	v.SetDefault("output.product.path", "product")

	v.SetDefault("output.figure.enabled", false)
	v.SetDefault("output.figure.path", "fig")

	v.SetDefault("output.sqlite.enabled", false)
	v.SetDefault("output.sqlite.path", "qlp.db")

	v.SetDefault("output.mysql.enabled", false)
	v.SetDefault("output.mysql.username", "qlp")
	v.SetDefault("output.mysql.password", "secret")
	v.SetDefault("output.mysql.database", "qlp")
	v.SetDefault("output.mysql.host", "localhost")
	v.SetDefault("output.mysql.port", "3306")

	v.SetDefault("output.metrics.enabled", false)
	v.SetDefault("output.metrics.path", "qlp.prom")
}

// # Loading
//
//	cfg := config.Default()
//	if err := config.Load("lesserpandas.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variable Substitution
//
// Values may reference the environment with ${VAR_NAME}:
//
//	io:
//	  csv_delimiter: "${CSV_DELIMITER}"
//	log:
//	  level: ${LOG_LEVEL}
//
// Unset variables expand to the empty string. The command line tool layers
// three sources: the config file, LESSERPANDAS_* environment variables and
// flags, later sources winning.
package config

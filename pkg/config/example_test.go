package config_test

import (
	"fmt"

	"github.com/nash-dir/lesserpandas/pkg/config"
)

// ExampleDefault shows the defaults every tool starts from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Log Level: %s\n", cfg.Log.Level)
	fmt.Printf("Max Rows: %d\n", cfg.Display.MaxRows)
	fmt.Printf("Delimiter: %q\n", cfg.IO.Delimiter())

	// Output:
	// Log Level: warn
	// Max Rows: 20
	// Delimiter: ','
}

func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.IO.CSVDelimiter = "::"

	fmt.Println(cfg.Validate())

	// Output:
	// config: io.csv_delimiter must be a single character, got "::"
}

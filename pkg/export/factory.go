package export

import "github.com/kilianp07/yardplan/core/factory"

// Registry holds the known output types.
var Registry = factory.NewRegistry[Output]()

func init() {
	_ = Registry.Register("text", func(conf map[string]any) (Output, error) {
		var c struct {
			Dir string `json:"dir"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Dir == "" {
			c.Dir = "output"
		}
		return TextOutput{Dir: c.Dir}, nil
	})

	_ = Registry.Register("csv", func(conf map[string]any) (Output, error) {
		var c struct {
			Dir string `json:"dir"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Dir == "" {
			c.Dir = "output"
		}
		return CSVOutput{Dir: c.Dir}, nil
	})

	_ = Registry.Register("json", func(conf map[string]any) (Output, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "output/schedule.json"
		}
		return JSONOutput{Path: c.Path}, nil
	})
}

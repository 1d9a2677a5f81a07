// Package factory provides a small generic registry used to instantiate
// pluggable pipeline parts, such as schedule outputs, from configuration. A
// part is described by a type string and a map of raw settings; its factory
// decodes the settings into a typed struct and returns the implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[export.Output]()
//	reg.Register("text", func(conf map[string]any) (export.Output, error) {
//	    var c struct{ Dir string `json:"dir"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return export.TextOutput{Dir: c.Dir}, nil
//	})
//	out, err := reg.Create(factory.ModuleConfig{Type: "text", Conf: map[string]any{"dir": "output"}})
package factory

package logging

// NopLogger discards everything. Intended for tests.
type NopLogger struct{}

func (NopLogger) Init()                 {}
func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
func (NopLogger) Fatalf(string, ...any) {}

func (NopLogger) Debug(Category, SubCategory, string, map[ExtraKey]any) {}
func (NopLogger) Info(Category, SubCategory, string, map[ExtraKey]any)  {}
func (NopLogger) Warn(Category, SubCategory, string, map[ExtraKey]any)  {}
func (NopLogger) Error(Category, SubCategory, string, map[ExtraKey]any) {}
func (NopLogger) Fatal(Category, SubCategory, string, map[ExtraKey]any) {}

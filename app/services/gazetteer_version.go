package services

import "sync/atomic"

// GazetteerVersion giữ phiên bản gazetteer đang phục vụ, dùng chung giữa các service
type GazetteerVersion struct {
	v atomic.Value
}

// NewGazetteerVersion tạo mới với phiên bản ban đầu
func NewGazetteerVersion(initial string) *GazetteerVersion {
	gv := &GazetteerVersion{}
	gv.Set(initial)
	return gv
}

func (gv *GazetteerVersion) Get() string {
	s, _ := gv.v.Load().(string)
	return s
}

func (gv *GazetteerVersion) Set(version string) {
	gv.v.Store(version)
}

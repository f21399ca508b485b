package filters

import (
	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/golang/glog"
)

// Filter transforms a point cloud into a new one, the input cloud is never modified
type Filter interface {
	Name() string
	Apply(cloud *data.PointCloud) (*data.PointCloud, error)
}

// Pipeline applies its filters in order, each one to the output of the previous
type Pipeline struct {
	filters []Filter
}

func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{
		filters: filters,
	}
}

func (p *Pipeline) Add(filter Filter) {
	p.filters = append(p.filters, filter)
}

func (p *Pipeline) Len() int {
	return len(p.filters)
}

func (p *Pipeline) Apply(cloud *data.PointCloud) (*data.PointCloud, error) {
	current := cloud
	for _, filter := range p.filters {
		before := current.Size()
		result, err := filter.Apply(current)
		if err != nil {
			return nil, err
		}
		glog.Infof("> filter %s: %d -> %d points", filter.Name(), before, result.Size())
		current = result
	}
	return current, nil
}

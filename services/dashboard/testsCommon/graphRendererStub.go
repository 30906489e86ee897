package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// GraphRendererStub -
type GraphRendererStub struct {
	RenderGraphHandler func(graph common.GraphView)
}

// RenderGraph -
func (stub *GraphRendererStub) RenderGraph(graph common.GraphView) {
	if stub.RenderGraphHandler != nil {
		stub.RenderGraphHandler(graph)
	}
}

// IsInterfaceNil -
func (stub *GraphRendererStub) IsInterfaceNil() bool {
	return stub == nil
}

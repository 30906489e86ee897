package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// RendererStub -
type RendererStub struct {
	CardRendererStub
	RenderGraphHandler func(graph common.GraphView)
}

// RenderGraph -
func (stub *RendererStub) RenderGraph(graph common.GraphView) {
	if stub.RenderGraphHandler != nil {
		stub.RenderGraphHandler(graph)
	}
}

// IsInterfaceNil -
func (stub *RendererStub) IsInterfaceNil() bool {
	return stub == nil
}

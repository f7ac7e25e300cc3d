package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"computerunner/internal/config"
	"computerunner/internal/shader"
	"computerunner/pkg/workgroup"
)

const outputFormat = wgpu.TextureFormat_RGBA32Float

// wgpuBackend dispatches WGSL compute shaders through WebGPU.
//
// Compute shaders bind the output as
//
//	@group(0) @binding(0) var out: texture_storage_2d<rgba32float, write>;
//	@group(0) @binding(1) var<uniform> frame: Frame;
//
// where Frame is { resolution: vec2<f32>, mouse: vec2<f32>, time: f32 }.
type wgpuBackend struct {
	compute config.Compute
	clear   [4]float32
	vsync   bool

	width, height uint32

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	swapChain       *wgpu.SwapChain
	swapChainFormat wgpu.TextureFormat

	displayPipeline *wgpu.RenderPipeline
	displayLayout   *wgpu.BindGroupLayout
	displayGroup    *wgpu.BindGroup
	quadBuffer      *wgpu.Buffer

	computeModule   *wgpu.ShaderModule
	computeLayout   *wgpu.BindGroupLayout
	computePipeline *wgpu.ComputePipeline

	outputTexture *wgpu.Texture
	outputView    *wgpu.TextureView

	info Info
}

func newWGPUBackend(cfg *config.Config) *wgpuBackend {
	return &wgpuBackend{
		compute: cfg.Compute,
		clear:   cfg.Display.ClearColor,
		vsync:   cfg.Window.VSync,
	}
}

func (b *wgpuBackend) Name() string { return config.BackendWebGPU }

func (b *wgpuBackend) ConfigureWindow() {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)
}

func (b *wgpuBackend) Init(window *glfw.Window, width, height int) error {
	b.instance = wgpu.CreateInstance(&wgpu.InstanceDescriptor{
		Backends: wgpu.InstanceBackend_Metal,
	})
	if b.instance == nil {
		return fmt.Errorf("failed to create WebGPU instance")
	}

	var err error
	if b.surface, err = createSurface(b.instance, window); err != nil {
		return err
	}

	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
		PowerPreference:   wgpu.PowerPreference_HighPerformance,
	})
	if err != nil {
		return fmt.Errorf("adapter request failed: %w", err)
	}

	props := b.adapter.GetProperties()
	limits := b.adapter.GetLimits().Limits
	b.info = Info{
		Backend:         config.BackendWebGPU,
		Version:         "WebGPU",
		Renderer:        fmt.Sprintf("%s (%s)", props.Name, props.DriverDescription),
		ShadingLanguage: "WGSL",
		Limits: workgroup.Limits{
			MaxCount: workgroup.Dims{
				X: limits.MaxComputeWorkgroupsPerDimension,
				Y: limits.MaxComputeWorkgroupsPerDimension,
				Z: limits.MaxComputeWorkgroupsPerDimension,
			},
			MaxSize: workgroup.Dims{
				X: limits.MaxComputeWorkgroupSizeX,
				Y: limits.MaxComputeWorkgroupSizeY,
				Z: limits.MaxComputeWorkgroupSizeZ,
			},
			MaxInvocations: limits.MaxComputeInvocationsPerWorkgroup,
		},
	}
	logger.Noticef("graphics card: %s", b.info.Renderer)
	logger.Infof("max compute work group count: %s", b.info.Limits.MaxCount)
	logger.Infof("max compute work group size: %s", b.info.Limits.MaxSize)
	logger.Infof("max compute work group invocations: %d", b.info.Limits.MaxInvocations)

	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "compute_runner_device",
	})
	if err != nil {
		return fmt.Errorf("device request failed: %w", err)
	}
	b.queue = b.device.GetQueue()

	b.width, b.height = uint32(width), uint32(height)
	b.swapChainFormat = b.surface.GetPreferredFormat(b.adapter)
	if err := b.createSwapChain(); err != nil {
		return err
	}

	if err := b.createDisplayPipeline(); err != nil {
		return fmt.Errorf("failed to create display program: %w", err)
	}
	return nil
}

func (b *wgpuBackend) Info() Info { return b.info }

func (b *wgpuBackend) createSwapChain() error {
	presentMode := wgpu.PresentMode_Fifo
	if !b.vsync {
		presentMode = wgpu.PresentMode_Immediate
	}

	if b.swapChain != nil {
		b.swapChain.Release()
	}

	var err error
	b.swapChain, err = b.device.CreateSwapChain(b.surface, &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      b.swapChainFormat,
		Width:       b.width,
		Height:      b.height,
		PresentMode: presentMode,
	})
	if err != nil {
		return fmt.Errorf("swap chain creation failed: %w", err)
	}
	return nil
}

func (b *wgpuBackend) createDisplayPipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "display_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shader.DisplayWGSL},
	})
	if err != nil {
		return fmt.Errorf("shader creation failed: %w", err)
	}
	defer module.Release()

	b.displayLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "display_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Fragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleType_UnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimension_2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout creation failed: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "display_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.displayLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout creation failed: %w", err)
	}
	defer pipelineLayout.Release()

	b.displayPipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "display_pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(vertexStride),
				StepMode:    wgpu.VertexStepMode_Vertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormat_Float32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormat_Float32x2, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.swapChainFormat,
				Blend:     &wgpu.BlendState_Replace,
				WriteMask: wgpu.ColorWriteMask_All,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopology_TriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline creation failed: %w", err)
	}

	b.quadBuffer, err = b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad_vertices",
		Contents: wgpu.ToBytes(quadVertices),
		Usage:    wgpu.BufferUsage_Vertex,
	})
	if err != nil {
		return fmt.Errorf("vertex buffer creation failed: %w", err)
	}
	return nil
}

func (b *wgpuBackend) LoadCompute(src *shader.Source) error {
	if src.Language != shader.WGSL {
		return fmt.Errorf("%w: %s", ErrWrongLanguage, src.Language)
	}
	if err := shader.ValidateWGSL(src.Code); err != nil {
		return fmt.Errorf("%w: %w", ErrCompile, err)
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          src.Path,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src.Code},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCompile, err)
	}

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "compute_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Compute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccess_WriteOnly,
					Format:        outputFormat,
					ViewDimension: wgpu.TextureViewDimension_2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStage_Compute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingType_Uniform},
			},
		},
	})
	if err != nil {
		module.Release()
		return fmt.Errorf("bind group layout creation failed: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "compute_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return fmt.Errorf("pipeline layout creation failed: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "compute_pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: b.compute.EntryPoint,
		},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return fmt.Errorf("%w: %w", ErrLink, err)
	}

	b.releaseCompute()
	b.computeModule = module
	b.computeLayout = layout
	b.computePipeline = pipeline

	return b.createOutputTexture()
}

func (b *wgpuBackend) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	b.width, b.height = uint32(width), uint32(height)

	if err := b.createSwapChain(); err != nil {
		return err
	}
	return b.createOutputTexture()
}

// createOutputTexture (re)allocates the storage texture and the display
// bind group that samples it.
func (b *wgpuBackend) createOutputTexture() error {
	b.releaseOutput()

	var err error
	b.outputTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "output_texture",
		Size: wgpu.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        outputFormat,
		Usage:         wgpu.TextureUsage_StorageBinding | wgpu.TextureUsage_TextureBinding,
	})
	if err != nil {
		return fmt.Errorf("output texture creation failed: %w", err)
	}

	b.outputView, err = b.outputTexture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          outputFormat,
		Dimension:       wgpu.TextureViewDimension_2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspect_All,
	})
	if err != nil {
		return fmt.Errorf("output texture view creation failed: %w", err)
	}

	b.displayGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "display_bind_group",
		Layout:  b.displayLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: b.outputView}},
	})
	if err != nil {
		return fmt.Errorf("display bind group creation failed: %w", err)
	}

	logger.Debugf("allocated %dx%d output texture", b.width, b.height)
	return nil
}

func (b *wgpuBackend) Dispatch(in FrameInputs) error {
	if b.computePipeline == nil {
		return ErrNoCompute
	}

	groups, err := dispatchSize(b.compute, int(b.width), int(b.height))
	if err != nil {
		return err
	}
	if err := b.info.Limits.Check(groups, localSize(b.compute)); err != nil {
		return err
	}

	uniforms := in.Uniforms()
	uniformBuffer, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "frame_uniforms",
		Contents: wgpu.ToBytes([]FrameUniforms{uniforms}),
		Usage:    wgpu.BufferUsage_Uniform,
	})
	if err != nil {
		return err
	}
	defer uniformBuffer.Release()

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "compute_bind_group",
		Layout: b.computeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.outputView},
			{Binding: 1, Buffer: uniformBuffer, Size: uint64(unsafe.Sizeof(uniforms))},
		},
	})
	if err != nil {
		return err
	}
	defer group.Release()

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{})
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "compute_pass"})
	pass.SetPipeline(b.computePipeline)
	pass.SetBindGroup(0, group, nil)
	pass.DispatchWorkgroups(groups.X, groups.Y, groups.Z)
	if err := pass.End(); err != nil {
		return fmt.Errorf("compute pass: %w", err)
	}

	cmdBuffer, err := encoder.Finish(&wgpu.CommandBufferDescriptor{})
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	b.queue.Submit(cmdBuffer)
	return nil
}

func (b *wgpuBackend) Display() error {
	view, err := b.swapChain.GetCurrentTextureView()
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{})
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOp_Clear,
			StoreOp: wgpu.StoreOp_Store,
			ClearValue: wgpu.Color{
				R: float64(b.clear[0]),
				G: float64(b.clear[1]),
				B: float64(b.clear[2]),
				A: float64(b.clear[3]),
			},
		}},
	})
	pass.SetPipeline(b.displayPipeline)
	pass.SetBindGroup(0, b.displayGroup, nil)
	pass.SetVertexBuffer(0, b.quadBuffer, 0, wgpu.WholeSize)
	pass.Draw(uint32(len(quadVertices)), 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("display pass: %w", err)
	}

	cmdBuffer, err := encoder.Finish(&wgpu.CommandBufferDescriptor{})
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	b.queue.Submit(cmdBuffer)
	return nil
}

func (b *wgpuBackend) Present(_ *glfw.Window) {
	b.swapChain.Present()
}

func (b *wgpuBackend) releaseOutput() {
	if b.displayGroup != nil {
		b.displayGroup.Release()
		b.displayGroup = nil
	}
	if b.outputView != nil {
		b.outputView.Release()
		b.outputView = nil
	}
	if b.outputTexture != nil {
		b.outputTexture.Release()
		b.outputTexture = nil
	}
}

func (b *wgpuBackend) releaseCompute() {
	if b.computePipeline != nil {
		b.computePipeline.Release()
		b.computePipeline = nil
	}
	if b.computeLayout != nil {
		b.computeLayout.Release()
		b.computeLayout = nil
	}
	if b.computeModule != nil {
		b.computeModule.Release()
		b.computeModule = nil
	}
}

func (b *wgpuBackend) Release() {
	b.releaseCompute()
	b.releaseOutput()

	if b.quadBuffer != nil {
		b.quadBuffer.Release()
	}
	if b.displayPipeline != nil {
		b.displayPipeline.Release()
	}
	if b.displayLayout != nil {
		b.displayLayout.Release()
	}
	if b.swapChain != nil {
		b.swapChain.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

package rename

// The maps below are the compiled-in SRC→DST vocabulary. They mirror the
// shape of the real CUDA→HIP runtime mapping: most entries are direct
// 1:1 renames (cuda* → hip*); a handful are marked Unsupported because the
// DST runtime has no equivalent, so a lookup should warn rather than
// rewrite.

func builtinIdent() map[string]Entry {
	m := map[string]Entry{
		// memory management
		"cudaMalloc":        {DSTName: "hipMalloc", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaFree":           {DSTName: "hipFree", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpy":          {DSTName: "hipMemcpy", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpyAsync":     {DSTName: "hipMemcpyAsync", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemset":          {DSTName: "hipMemset", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMallocHost":      {DSTName: "hipHostMalloc", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaFreeHost":        {DSTName: "hipHostFree", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMallocManaged":   {DSTName: "hipMallocManaged", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemGetInfo":      {DSTName: "hipMemGetInfo", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpyKind":      {DSTName: "hipMemcpyKind", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpyHostToDevice": {DSTName: "hipMemcpyHostToDevice", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpyDeviceToHost": {DSTName: "hipMemcpyDeviceToHost", ConvType: ConvMemory, APIFamily: FamilyRuntime},
		"cudaMemcpyDeviceToDevice": {DSTName: "hipMemcpyDeviceToDevice", ConvType: ConvMemory, APIFamily: FamilyRuntime},

		// device management
		"cudaGetDevice":           {DSTName: "hipGetDevice", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaSetDevice":           {DSTName: "hipSetDevice", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaGetDeviceCount":      {DSTName: "hipGetDeviceCount", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaGetDeviceProperties": {DSTName: "hipGetDeviceProperties", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaDeviceSynchronize":   {DSTName: "hipDeviceSynchronize", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaDeviceReset":         {DSTName: "hipDeviceReset", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaGetLastError":        {DSTName: "hipGetLastError", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaPeekAtLastError":     {DSTName: "hipPeekAtLastError", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaGetErrorString":      {DSTName: "hipGetErrorString", ConvType: ConvDevice, APIFamily: FamilyRuntime},
		"cudaSuccess":             {DSTName: "hipSuccess", ConvType: ConvDevice, APIFamily: FamilyRuntime},

		// streams
		"cudaStreamCreate":         {DSTName: "hipStreamCreate", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamDestroy":        {DSTName: "hipStreamDestroy", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamSynchronize":    {DSTName: "hipStreamSynchronize", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamWaitEvent":      {DSTName: "hipStreamWaitEvent", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamCreateWithFlags": {DSTName: "hipStreamCreateWithFlags", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamDefault":        {DSTName: "hipStreamDefault", ConvType: ConvStream, APIFamily: FamilyRuntime},
		"cudaStreamNonBlocking":    {DSTName: "hipStreamNonBlocking", ConvType: ConvStream, APIFamily: FamilyRuntime},

		// events
		"cudaEventCreate":      {DSTName: "hipEventCreate", ConvType: ConvEvent, APIFamily: FamilyRuntime},
		"cudaEventDestroy":     {DSTName: "hipEventDestroy", ConvType: ConvEvent, APIFamily: FamilyRuntime},
		"cudaEventRecord":      {DSTName: "hipEventRecord", ConvType: ConvEvent, APIFamily: FamilyRuntime},
		"cudaEventSynchronize": {DSTName: "hipEventSynchronize", ConvType: ConvEvent, APIFamily: FamilyRuntime},
		"cudaEventElapsedTime": {DSTName: "hipEventElapsedTime", ConvType: ConvEvent, APIFamily: FamilyRuntime},

		// builtin thread/block identifiers (reached via the member handler,
		// composed as "threadIdx.x" etc. — these map straight through since
		// DST spells them identically)
		"threadIdx": {DSTName: "threadIdx", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"blockIdx":  {DSTName: "blockIdx", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"blockDim":  {DSTName: "blockDim", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"gridDim":   {DSTName: "gridDim", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"threadIdx.x": {DSTName: "threadIdx.x", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"threadIdx.y": {DSTName: "threadIdx.y", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"threadIdx.z": {DSTName: "threadIdx.z", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"blockIdx.x":  {DSTName: "blockIdx.x", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"blockIdx.y":  {DSTName: "blockIdx.y", ConvType: ConvKernel, APIFamily: FamilyBuiltin},
		"blockIdx.z":  {DSTName: "blockIdx.z", ConvType: ConvKernel, APIFamily: FamilyBuiltin},

		// driver-API constructs with no supported DST equivalent
		"cuCtxCreate":     {DSTName: "", ConvType: ConvDevice, APIFamily: FamilyDriver, Unsupported: true},
		"cuCtxDestroy":    {DSTName: "", ConvType: ConvDevice, APIFamily: FamilyDriver, Unsupported: true},
		"cudaProfilerStart": {DSTName: "", ConvType: ConvOther, APIFamily: FamilyRuntime, Unsupported: true},
		"cudaProfilerStop":  {DSTName: "", ConvType: ConvOther, APIFamily: FamilyRuntime, Unsupported: true},
	}
	return m
}

func builtinType() map[string]Entry {
	return map[string]Entry{
		"cudaError_t":       {DSTName: "hipError_t", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaStream_t":      {DSTName: "hipStream_t", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaEvent_t":       {DSTName: "hipEvent_t", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaDeviceProp":    {DSTName: "hipDeviceProp_t", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaMemcpyKind":    {DSTName: "hipMemcpyKind", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaIpcMemHandle_t": {DSTName: "hipIpcMemHandle_t", ConvType: ConvType_, APIFamily: FamilyRuntime},
		"cudaTextureObject_t": {DSTName: "", ConvType: ConvType_, APIFamily: FamilyRuntime, Unsupported: true},
		"CUcontext": {DSTName: "", ConvType: ConvType_, APIFamily: FamilyDriver, Unsupported: true},
	}
}

func builtinInclude() map[string]Entry {
	return map[string]Entry{
		"cuda_runtime.h":     {DSTName: "hip/hip_runtime.h", ConvType: ConvInclude, APIFamily: FamilyRuntime},
		"cuda_runtime_api.h": {DSTName: "hip/hip_runtime_api.h", ConvType: ConvInclude, APIFamily: FamilyRuntime},
		"cuda.h":             {DSTName: "hip/hip_runtime.h", ConvType: ConvInclude, APIFamily: FamilyDriver},
		"device_launch_parameters.h": {DSTName: "hip/device_functions.h", ConvType: ConvInclude, APIFamily: FamilyRuntime},
		"cuda_fp16.h":        {DSTName: "hip/hip_fp16.h", ConvType: ConvInclude, APIFamily: FamilyRuntime},
		"cublas_v2.h":        {DSTName: "", ConvType: ConvInclude, APIFamily: FamilyMath, Unsupported: true},
	}
}

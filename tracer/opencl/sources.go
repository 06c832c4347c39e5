package opencl

// The entrypoint of the bundle program.
const bundleKernelName = "trace_bundle"

// Device-side implementation of the bundle pass. The struct declarations
// mirror the interchange records byte for byte; they use scalar fields
// throughout because cl float3 would pad to 16 bytes. The host-side layout
// tests pin the Go sizes and offsets.
const programSource = `
typedef struct {
	float cx, cy, cz, radius;
	float nx, ny, nz, sa;
	float d1, flat, pos, w;
} lens_iface_t;

typedef struct {
	float bounce1, bounce2, pad1, pad2;
} ghost_t;

typedef struct {
	float time, spread, plate_size, aperture_id;
	float iface_count, coating_quality, backbuffer_w, backbuffer_h;
	float light_x, light_y, light_z, aperture_res;
	float aperture_opening, blade_count, starburst_res, pad;
} globals_t;

typedef struct {
	float x, y, intensity, reserved;
} vertex_t;

typedef struct {
	float3 pos;
	float3 dir;
} ray_t;

typedef struct {
	float3 pos;
	float3 norm;
	int hit;
} isect_t;

#define PARALLEL_EPSILON 1e-5f
#define COATING_SUPPRESSION 0.1f

/* Unsigned planar solve: a plane behind the ray origin still reports a
 * hit. The normal is the axis normal facing against the ray. */
isect_t test_planar(ray_t r, __global const lens_iface_t* iface)
{
	isect_t is;
	is.hit = 0;

	if (fabs(r.dir.z) < PARALLEL_EPSILON) {
		return is;
	}

	float t = (iface->pos - r.pos.z) / r.dir.z;
	is.pos = r.pos + r.dir * t;
	is.norm = (float3)(0.0f, 0.0f, r.dir.z > 0.0f ? -1.0f : 1.0f);
	is.hit = 1;
	return is;
}

/* Smaller strictly positive quadratic root, falling back to the larger one
 * so a ray starting inside the sphere still hits the far shell. The normal
 * points from the hit towards the sphere center. */
isect_t test_spherical(ray_t r, __global const lens_iface_t* iface)
{
	isect_t is;
	is.hit = 0;

	float3 center = (float3)(iface->cx, iface->cy, iface->cz);
	float3 oc = r.pos - center;
	float b = dot(oc, r.dir);
	float c = dot(oc, oc) - iface->radius * iface->radius;
	float disc = b * b - c;
	if (disc < 0.0f) {
		return is;
	}

	float sq = sqrt(disc);
	float t = -b - sq;
	if (t <= 0.0f) {
		t = -b + sq;
	}
	if (t <= 0.0f) {
		return is;
	}

	is.pos = r.pos + r.dir * t;
	is.norm = normalize(center - is.pos);
	is.hit = 1;
	return is;
}

isect_t test_iface(ray_t r, __global const lens_iface_t* iface)
{
	return iface->flat > 0.5f ? test_planar(r, iface) : test_spherical(r, iface);
}

/* A matched boundary reflects nothing at any incidence; the zero index
 * sum takes the same path instead of dividing by zero. */
float fresnel_schlick(float cos_theta, float n1, float n2)
{
	if (n1 == n2 || n1 + n2 == 0.0f) {
		return 0.0f;
	}

	float r0 = (n1 - n2) / (n1 + n2);
	r0 *= r0;

	float m = 1.0f - cos_theta;
	return r0 + (1.0f - r0) * m * m * m * m * m;
}

/* Advance the ray through the half-open interface range [start, end); the
 * returned intersection is the one at end itself. A miss anywhere kills
 * the segment. */
int trace_segment(__global const lens_iface_t* stack, int start, int end, ray_t* r, isect_t* out)
{
	int step = end < start ? -1 : 1;

	for (int i = start; i != end; i += step) {
		isect_t is = test_iface(*r, &stack[i]);
		if (!is.hit) {
			return 0;
		}
		r->pos = is.pos;
	}

	isect_t is = test_iface(*r, &stack[end]);
	if (!is.hit) {
		return 0;
	}
	r->pos = is.pos;
	*out = is;
	return 1;
}

float bounce(ray_t* r, isect_t is, __global const lens_iface_t* iface, float intensity)
{
	float cos_theta = fmin(fabs(dot(r->dir, is.norm)), 1.0f);
	float refl = fresnel_schlick(cos_theta, iface->nx, iface->nz);
	r->dir = r->dir - is.norm * (2.0f * dot(r->dir, is.norm));
	return intensity * refl * COATING_SUPPRESSION;
}

/* One work item per ghost grid cell: entry at the cell's plate coordinate,
 * pass up the stack to the first bounce, back down to the second, then
 * projection to the screen plane. Ghosts whose bounce indices escape the
 * stack are skipped without touching the output buffer. */
__kernel void trace_bundle(
	__global const lens_iface_t* stack,
	__global const ghost_t* ghosts,
	__global const globals_t* globals,
	__global vertex_t* verts,
	const unsigned int ghost_count,
	const unsigned int grid_res)
{
	unsigned int gid = get_global_id(0);
	unsigned int cells = grid_res * grid_res;
	if (gid >= ghost_count * cells) {
		return;
	}

	unsigned int g = gid / cells;
	unsigned int cell = gid - g * cells;
	unsigned int cy = cell / grid_res;
	unsigned int cx = cell - cy * grid_res;

	int iface_count = (int)globals->iface_count;
	int b1 = (int)ghosts[g].bounce1;
	int b2 = (int)ghosts[g].bounce2;
	if (b1 < 1 || b1 >= iface_count || b2 < 0 || b2 >= iface_count) {
		return;
	}

	vertex_t dead;
	dead.x = 0.0f;
	dead.y = 0.0f;
	dead.intensity = 0.0f;
	dead.reserved = 1.0f;

	/* The light vector points towards the light; rays propagate the
	 * opposite way. A degenerate light vector yields a dead frame
	 * rather than NaN. */
	float3 light = (float3)(globals->light_x, globals->light_y, globals->light_z);
	float len2 = dot(light, light);
	float3 dir = (float3)(0.0f, 0.0f, 0.0f);
	if (len2 > 0.0f) {
		dir = -light / sqrt(len2);
	}

	float u = 2.0f * (float)cx / (float)(grid_res - 1) - 1.0f;
	float v = 2.0f * (float)cy / (float)(grid_res - 1) - 1.0f;

	ray_t r;
	r.pos = (float3)(u * globals->plate_size, v * globals->plate_size, 0.0f);
	r.dir = dir;
	float intensity = 1.0f;
	isect_t is;

	unsigned int idx = g * cells + cy * grid_res + cx;

	if (!trace_segment(stack, 0, b1, &r, &is)) {
		verts[idx] = dead;
		return;
	}
	intensity = bounce(&r, is, &stack[b1], intensity);

	if (!trace_segment(stack, b1 - 1, b2, &r, &is)) {
		verts[idx] = dead;
		return;
	}
	intensity = bounce(&r, is, &stack[b2], intensity);

	float sx = r.pos.x / globals->backbuffer_w * 2.0f;
	float sy = r.pos.y / globals->backbuffer_h * 2.0f;

	vertex_t out;
	out.x = isfinite(sx) ? sx : 0.0f;
	out.y = isfinite(sy) ? sy : 0.0f;
	out.intensity = isfinite(intensity) ? intensity : 0.0f;
	out.reserved = 1.0f;
	verts[idx] = out;
}
`

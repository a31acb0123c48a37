package memhost

import "github.com/blockbridge-dev/blockbridge/host"

// Catalog ids mirror the editor's built-in format and codec families.
const (
	FormatBedrock       = "bedrock"
	FormatBedrockBlock  = "bedrock_block"
	FormatBedrockEntity = "bedrock_entity"
	FormatJavaBlock     = "java_block"
	FormatFree          = "free"
	FormatOptiFineEnt   = "optifine_entity"
	FormatOptiFinePart  = "optifine_part"

	CodecProject      = "project"
	CodecBedrock      = "bedrock"
	CodecJavaBlock    = "java_block"
	CodecOptiFineEnt  = "optifine_entity"
	CodecOptiFinePart = "optifine_part"
)

func defaultFormats() []host.Format {
	return []host.Format{
		{
			ID: FormatBedrockBlock, Name: "Bedrock Block/Item", Category: "Minecraft: Bedrock Edition",
			SingleTexture: true, Rotation: true, AnimationMode: true, BoneRig: true,
			CenteredGrid: true, MeshesSupported: false,
		},
		{
			ID: FormatBedrockEntity, Name: "Bedrock Entity", Category: "Minecraft: Bedrock Edition",
			SingleTexture: true, BoxUV: true, Rotation: true, AnimationMode: true,
			BoneRig: true, CenteredGrid: true,
		},
		{
			ID: FormatBedrock, Name: "Bedrock Model", Category: "Minecraft: Bedrock Edition",
			SingleTexture: true, BoxUV: true, Rotation: true, AnimationMode: true,
			BoneRig: true, CenteredGrid: true,
		},
		{
			ID: FormatJavaBlock, Name: "Java Block/Item", Category: "Minecraft: Java Edition",
			Rotation: true, DisplayMode: true, CenteredGrid: true,
		},
		{
			ID: FormatFree, Name: "Generic Model", Category: "General",
			Rotation: true, MeshesSupported: true, TextureMeshes: true,
		},
		{
			ID: FormatOptiFineEnt, Name: "OptiFine Entity", Category: "Minecraft: Java Edition",
			BoxUV: true, Rotation: true, BoneRig: true,
		},
		{
			ID: FormatOptiFinePart, Name: "OptiFine Part", Category: "Minecraft: Java Edition",
			BoxUV: true, Rotation: true, BoneRig: true,
		},
	}
}

func defaultCodecs() []host.Codec {
	return []host.Codec{
		{ID: CodecProject, Name: "Project", Extension: "bbmodel"},
		{ID: CodecBedrock, Name: "Bedrock Geometry", Extension: "geo.json"},
		{ID: CodecJavaBlock, Name: "Java Block/Item Model", Extension: "json"},
		{ID: CodecOptiFineEnt, Name: "OptiFine Entity Model", Extension: "jem"},
		{ID: CodecOptiFinePart, Name: "OptiFine Part Model", Extension: "jpm"},
	}
}

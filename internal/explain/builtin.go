package explain

import "github.com/Brownie44l1/plant-disease-api/internal/registry"

func Builtin() *Catalog {
	return New(map[registry.Species]map[string]string{
		registry.Tomato: {
			"Tomato_Early_blight": "Early blight is a common fungal disease that affects tomato plants. It is caused by the fungus Alternaria solani.",
			"Tomato_Leaf_Mold":    "Tomato leaf mold is a foliar disease that primarily affects the leaves...",
			"Tomato_healthy":      "Your tomato plant looks healthy!",
		},
		registry.Cotton: {
			"diseased cotton leaf":   "Diseased cotton leaves often show symptoms like yellowing and wilting...",
			"diseased cotton plant":  "Cotton plant diseases can lead to reduced yield and fiber quality...",
			"fresh cotton leaf":      "Your cotton leaf appears healthy! In a thriving state, a fresh cotton leaf showcases vibrant green color, smooth texture, and well-defined veins. This is a positive sign of a leaf that is actively contributing to the plant's photosynthesis and overall well-being.",
			"fresh cotton plant":     "Your cotton plant appears healthy! A healthy cotton plant exhibits robust growth with lush, green foliage. It stands tall with sturdy stems, indicating a well-nourished and disease-free condition. Proper care has contributed to the plant's vitality and potential for optimal cotton production.",
			"other cotton disease 1": "Description for other cotton disease 1...",
			"other cotton disease 2": "Description for other cotton disease 2...",
		},
		registry.Potato: {
			"Potato___Early_blight": "Early blight in potatoes can cause dark lesions on leaves. It is primarily caused by the fungus Alternaria solani. Proper spacing, fungicides, and crop rotation can help manage early blight.",
			"Potato___Late_blight":  "Late blight is a serious disease of potato and tomato crops, caused by the oomycete pathogen Phytophthora infestans. Early detection, proper plant spacing, and fungicide applications are key preventive measures.",
			"Potato___healthy":      "Your potato plant looks healthy! Healthy potato plants typically have vibrant green leaves, well-spaced foliage, and show no signs of discoloration or lesions. Regular monitoring and good agricultural practices contribute to maintaining plant health.",
		},
	})
}

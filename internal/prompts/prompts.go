package prompts

import "fmt"

// ============================================================================
// Content Generation
// ============================================================================

// ContentSystemPrompt defines the writer persona for generate-content.
const ContentSystemPrompt = `You are an expert content writer who creates high-quality, engaging, and informative content. Your writing is clear, well-structured, and tailored to the audience. Always provide well-researched, accurate information.`

const contentUserTemplate = `Write comprehensive, high-quality content about: %s

Include:
- An engaging introduction
- Well-organized main sections with clear headings
- Key points and insights
- Practical examples or applications where relevant
- A thoughtful conclusion

Make the content informative, engaging, and easy to read.`

// ContentUserPrompt builds the user message for a content topic.
func ContentUserPrompt(topic string) string {
	return fmt.Sprintf(contentUserTemplate, topic)
}

// ============================================================================
// Slide Outlines
// ============================================================================

// SlidesSystemPrompt defines the presentation designer persona.
const SlidesSystemPrompt = `You are an expert presentation designer who creates clear, visually-oriented slide content. You excel at breaking down complex information into digestible slides with clear titles, bullet points, and speaker notes.`

const slidesUserTemplate = `Analyze the following content and create a professional presentation outline with slides.

Content to analyze:
%s

For each slide, provide:
1. **Slide Title**: A clear, concise title
2. **Key Points**: 3-5 bullet points (keep each brief - max 10 words)
3. **Visual Suggestion**: What image or diagram would enhance this slide
4. **Speaker Notes**: Brief notes for the presenter

Create 5-8 slides that effectively communicate the main ideas. Format each slide clearly.`

// SlidesUserPrompt builds the user message for the content to outline.
func SlidesUserPrompt(content string) string {
	return fmt.Sprintf(slidesUserTemplate, content)
}

// ============================================================================
// Image Generation
// ============================================================================

const imageTemplate = `Generate an educational and visually appealing image based on this description: %s. Make it clear, colorful, and suitable for learning purposes.`

// ImagePrompt builds the single user message for image generation.
func ImagePrompt(description string) string {
	return fmt.Sprintf(imageTemplate, description)
}

// ============================================================================
// Multimodal Analysis
// ============================================================================

// ExplainImagePrompt asks for a student-friendly breakdown of an image.
const ExplainImagePrompt = `Analyze this image and provide a detailed, student-friendly explanation. Break down complex concepts into clear bullet points. Focus on:
1. What is shown in the image
2. Key elements and their significance
3. Educational value and learning points
4. Any interesting facts or context

Format your response in a clear, easy-to-read manner with sections and bullet points.`

// TranscribePrompt asks for a verbatim transcription.
const TranscribePrompt = `Please transcribe the speech in this audio file. Provide the full text transcription.`

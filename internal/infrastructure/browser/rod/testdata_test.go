package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	// WizardHTML is a trimmed apply wizard: one text field with inline
	// validation and a next button that swaps the step heading.
	WizardHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="jobs-easy-apply-modal" data-test-modal-id="easy-apply-modal" role="dialog">
		<form>
			<h3 id="heading">Additional questions</h3>
			<div class="artdeco-text-input--container">
				<label class="artdeco-text-input--label" for="years:1">Years of experience</label>
				<input class="artdeco-text-input--input" id="years:1" type="text" />
				<div id="years:1-error"></div>
			</div>
			<button data-easy-apply-next-button type="button">Next</button>
			<button id="hidden" style="display:none">Hidden</button>
		</form>
	</div>
	<script>
		const input = document.getElementById('years:1');
		const error = document.getElementById('years:1-error');
		input.addEventListener('input', () => {
			error.innerHTML = /^\d+$/.test(input.value)
				? ''
				: '<span class="artdeco-inline-feedback__message">Enter a whole number</span>';
		});
		document.querySelector('[data-easy-apply-next-button]').addEventListener('click', () => {
			document.getElementById('heading').textContent = 'Review your application';
		});
	</script>
</body>
</html>`

	ListHTML = `<!DOCTYPE html>
<html>
<body style="height: 5000px;">
	<ul>
		<li class="item">One</li>
		<li class="item">Two</li>
		<li class="item">Three</li>
	</ul>
	<div id="modal"><button id="close">Close</button></div>
	<script>
		document.getElementById('close').addEventListener('click', () => {
			setTimeout(() => document.getElementById('modal').remove(), 200);
		});
	</script>
</body>
</html>`
)

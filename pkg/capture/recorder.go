// pkg/capture/recorder.go
package capture

// recorderJS is the script injected into every document. It derives a
// stable selector for the event target, preferring data-testid, then id,
// then name, then a short class/tag path, and reports clicks, text
// input, and checkbox/select changes through the exposed emit binding.
// Input events are reported per keystroke; coalescing happens on the Go
// side.
const recorderJS = `(() => {
	if (window.__flowgenRecording) { return; }
	window.__flowgenRecording = true;

	const selectorFor = (el) => {
		if (!el || el.nodeType !== 1) { return ''; }
		const testid = el.getAttribute('data-testid');
		if (testid) { return '[data-testid="' + testid + '"]'; }
		if (el.id) { return '#' + el.id; }
		const name = el.getAttribute('name');
		if (name) { return el.tagName.toLowerCase() + '[name="' + name + '"]'; }
		const parts = [];
		let node = el;
		while (node && node.nodeType === 1 && parts.length < 4) {
			let part = node.tagName.toLowerCase();
			if (node.classList.length > 0) {
				part += '.' + node.classList[0];
			}
			parts.unshift(part);
			if (node.id) {
				parts[0] = '#' + node.id;
				break;
			}
			node = node.parentElement;
		}
		return parts.join(' > ');
	};

	const emit = (kind, el, value) => {
		const fn = window['` + EmitBinding + `'];
		if (!fn) { return; }
		fn({
			kind: kind,
			selector: selectorFor(el),
			value: value || '',
			url: window.location.href
		});
	};

	document.addEventListener('click', (e) => {
		emit('click', e.target, '');
	}, true);

	document.addEventListener('input', (e) => {
		const el = e.target;
		if (!el || el.tagName === 'SELECT') { return; }
		if (el.type === 'checkbox' || el.type === 'radio') { return; }
		emit('fill', el, el.value);
	}, true);

	document.addEventListener('change', (e) => {
		const el = e.target;
		if (!el) { return; }
		if (el.tagName === 'SELECT') {
			emit('select', el, el.value);
		} else if (el.type === 'checkbox') {
			emit(el.checked ? 'check' : 'uncheck', el, '');
		}
	}, true);

	document.addEventListener('keydown', (e) => {
		if (e.key === 'Enter' || e.key === 'Escape' || e.key === 'Tab') {
			emit('press', e.target, e.key);
		}
	}, true);
})();`
